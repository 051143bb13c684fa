package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"musespark-backend/pkg/logger"
)

// DiskStorage keeps every blob as <dataDir>/<key>.json.
type DiskStorage struct {
	dataDir string
	mu      sync.RWMutex
}

func NewDiskStorage(dataDir string) *DiskStorage {
	return &DiskStorage{dataDir: dataDir}
}

func (d *DiskStorage) Init() error {
	if err := d.createDirectories(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	logger.Info("Disk storage initialized successfully")
	return nil
}

func (d *DiskStorage) createDirectories() error {
	dirs := []string{
		d.dataDir,
		filepath.Join(d.dataDir, "backup"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

func (d *DiskStorage) blobPath(key string) string {
	return filepath.Join(d.dataDir, key+".json")
}

func (d *DiskStorage) Read(key string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, err := os.ReadFile(d.blobPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	return data, nil
}

func (d *DiskStorage) Write(key string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.blobPath(key)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	return nil
}

func (d *DiskStorage) Close() error {
	return nil
}

// Backup copies every blob into backup/backup_<unix>/.
func (d *DiskStorage) Backup() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	backupDir := filepath.Join(d.dataDir, "backup", fmt.Sprintf("backup_%d", time.Now().Unix()))

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	files, err := os.ReadDir(d.dataDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		src := filepath.Join(d.dataDir, file.Name())
		dst := filepath.Join(backupDir, file.Name())
		if err := d.copyFile(src, dst); err != nil {
			return fmt.Errorf("%w: %v", ErrFileOperation, err)
		}
	}

	logger.Infof("Backup completed: %s", backupDir)
	return nil
}

func (d *DiskStorage) copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, 0644)
}
