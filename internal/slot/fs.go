package slot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem stores the document as one JSON file under a root directory.
// Writes stream to a temp file in the same directory and rename into place,
// so readers never observe a partial document.
type Filesystem struct {
	path string
}

// NewFilesystem returns a filesystem-backed slot rooted at root, creating
// the directory if needed. The document lives at <root>/<key>.json.
func NewFilesystem(root, key string) (*Filesystem, error) {
	if root == "" {
		root = "./data"
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Filesystem{path: filepath.Join(root, key+".json")}, nil
}

func (f *Filesystem) Driver() Driver { return DriverFilesystem }

func (f *Filesystem) Read(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (f *Filesystem) Write(_ context.Context, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

// Path returns the configured document path.
func (f *Filesystem) Path() string { return f.path }

// validateKey forbids empty keys, path traversal, and absolute paths.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty slot key")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("invalid slot key contains '..'")
	}
	if strings.ContainsAny(key, "/\\") {
		return fmt.Errorf("invalid slot key contains path separator")
	}
	return nil
}
