package storage

import "errors"

var (
	ErrBlobNotFound  = errors.New("blob not found")
	ErrInvalidData   = errors.New("invalid data")
	ErrStorageInit   = errors.New("storage initialization failed")
	ErrFileOperation = errors.New("file operation failed")
)
