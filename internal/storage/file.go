package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSlot 以单个 JSON 文件保存槽内容
// FileSlot keeps the slot in one JSON file, replaced atomically on write.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot stored at path; the parent directory is created.
func NewFileSlot(path string) (*FileSlot, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("slot file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &FileSlot{path: path}, nil
}

// Path returns the backing file path.
func (f *FileSlot) Path() string { return f.path }

func (f *FileSlot) Read(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileSlot) Write(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", f.path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func (f *FileSlot) Close() error { return nil }
