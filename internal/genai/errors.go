package genai

import "errors"

var (
	ErrEmptyResponse       = errors.New("empty model response")
	ErrMalformed           = errors.New("malformed model response")
	ErrUnsupportedProvider = errors.New("unsupported model provider")
)
