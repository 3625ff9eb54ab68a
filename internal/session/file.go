package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/errors"
)

// fileDocument is the on-disk layout of a FileStore.
type fileDocument struct {
	Values  map[string]string `yaml:"values"`
	SavedAt time.Time         `yaml:"saved_at"`
}

// FileStore keeps values in a YAML file readable only by the owner. The
// file is removed once the last value is deleted.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath returns the session file location in the user cache dir.
func DefaultFilePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.WrapIO("resolve", "user cache dir", err)
	}
	return filepath.Join(dir, constants.AppName, constants.SessionFileName), nil
}

// Path returns the file the store writes.
func (f *FileStore) Path() string {
	return f.path
}

// Get implements Store.
func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := doc.Values[key]
	if !ok {
		return "", ErrNoSession
	}
	return v, nil
}

// Set implements Store.
func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		return err
	}
	doc.Values[key] = value
	return f.write(doc)
}

// Delete implements Store.
func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		return err
	}
	delete(doc.Values, key)
	if len(doc.Values) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return errors.WrapIO("remove", f.path, err)
		}
		return nil
	}
	return f.write(doc)
}

// Name implements Store.
func (f *FileStore) Name() string { return "file" }

func (f *FileStore) read() (*fileDocument, error) {
	doc := &fileDocument{Values: map[string]string{}}
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", f.path, err)
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.WrapParse("yaml", f.path, err)
	}
	if doc.Values == nil {
		doc.Values = map[string]string{}
	}
	return doc, nil
}

func (f *FileStore) write(doc *fileDocument) error {
	if err := os.MkdirAll(filepath.Dir(f.path), constants.SecureDirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(f.path), err)
	}
	doc.SavedAt = time.Now().UTC()
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapParse("yaml", f.path, err)
	}
	if err := os.WriteFile(f.path, data, constants.SecureFilePermissions); err != nil {
		return errors.WrapIO("write", f.path, err)
	}
	return nil
}
