package lockfile

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/lockgraph/pkg/errors"
)

// Loader reads project files by path relative to the project root. Paths
// use forward slashes.
type Loader interface {
	Load(path string) ([]byte, error)
}

// DirLoader loads files from a directory on disk.
type DirLoader string

// Load reads path below the directory. Returns ErrCodeInvalidPath for paths
// escaping the directory and ErrCodeIO, wrapping the os error, when the
// read fails.
func (d DirLoader) Load(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(string(d), filepath.FromSlash(path)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return data, nil
}

// MapLoader serves files from memory. Missing paths fail with an error
// matching fs.ErrNotExist.
type MapLoader map[string]string

// Load returns the contents stored under path.
func (m MapLoader) Load(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeIO, fs.ErrNotExist, "read %s", path)
	}
	return []byte(s), nil
}

// LoadOptional is like loader.Load but reports a missing file as
// (nil, false, nil).
func LoadOptional(loader Loader, path string) ([]byte, bool, error) {
	data, err := loader.Load(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
