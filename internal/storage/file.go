package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps every key in a single JSON object on disk. The file is re-read
// on every Get so that writes from another movieflix process are visible.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// OpenFile returns a FileKV backed by path. The file is created lazily on the
// first write.
func OpenFile(path string) (*FileKV, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileKV{path: path}, nil
}

// Path returns the backing file.
func (f *FileKV) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, ok := data[key]
	return value, ok, nil
}

// Set stores value under key.
func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	return f.save(data)
}

// Remove deletes key. Removing a missing key is not an error.
func (f *FileKV) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

// Close is a no-op; FileKV holds no open handles.
func (f *FileKV) Close() error {
	return nil
}

func (f *FileKV) load() (map[string]string, error) {
	data := map[string]string{}
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	return data, nil
}

// save writes data atomically via a temp file and rename.
func (f *FileKV) save(data map[string]string) error {
	file, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create tmp: %w", err)
	}
	tmp := file.Name()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode store: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
