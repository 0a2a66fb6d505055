package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Storage persists upload bytes under a root directory. Every write
// targets a freshly generated name, so writes never contend; creation
// is exclusive so an existing file is never silently overwritten.
type Storage struct {
	fs   afero.Fs
	root string
}

// NewStorage creates the root directory if absent and returns a Storage
// rooted there.
func NewStorage(fs afero.Fs, root string) (*Storage, error) {
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder %s: %w", root, err)
	}
	return &Storage{fs: fs, root: root}, nil
}

// Save streams the content into a new file and returns its path and
// byte count. A partially written file is removed on error.
func (s *Storage) Save(name string, content io.Reader) (string, int64, error) {
	filePath := filepath.Join(s.root, name)

	out, err := s.fs.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, content)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(filePath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, written, nil
}

// Remove deletes a stored file. Used to clean up orphaned bytes when
// the metadata commit fails after the write.
func (s *Storage) Remove(filePath string) error {
	return s.fs.Remove(filePath)
}

// Exists reports whether a file is present under the storage root.
func (s *Storage) Exists(name string) bool {
	ok, err := afero.Exists(s.fs, filepath.Join(s.root, name))
	return err == nil && ok
}
