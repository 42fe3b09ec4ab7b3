package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	saveExt      = ".sav"
	thumbnailExt = ".png"
)

// FileStorage keeps save files on the local filesystem, one
// `<base>.sav` / `<base>.png` pair per save slot. Writes go through a
// temp file and rename so a crash mid-write never leaves a truncated
// save behind.
type FileStorage struct {
	dir    string
	logger *slog.Logger
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates the save directory if needed.
func NewFileStorage(dir string, logger *slog.Logger) (*FileStorage, error) {
	if dir == "" {
		dir = "./saves"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileStorage{dir: dir, logger: logger}, nil
}

func (f *FileStorage) Ping(ctx context.Context) error {
	if _, err := os.Stat(f.dir); err != nil {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error { return nil }

func (f *FileStorage) WriteSave(ctx context.Context, name string, data []byte) error {
	return f.writeAtomic(name+saveExt, data)
}

func (f *FileStorage) WriteThumbnail(ctx context.Context, name string, data []byte) error {
	return f.writeAtomic(name+thumbnailExt, data)
}

func (f *FileStorage) writeAtomic(filename string, data []byte) error {
	path := filepath.Join(f.dir, filename)
	tmp, err := os.CreateTemp(f.dir, filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}

func (f *FileStorage) ReadSave(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, name+saveExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read save file: %w", err)
	}
	return data, true, nil
}

func (f *FileStorage) DeleteSave(ctx context.Context, name string) error {
	for _, ext := range []string{saveExt, thumbnailExt} {
		path := filepath.Join(f.dir, name+ext)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to delete %s: %w", path, err)
		}
	}
	return nil
}

func (f *FileStorage) ListSaves(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), saveExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), saveExt))
	}
	sort.Strings(names)
	return names, nil
}
