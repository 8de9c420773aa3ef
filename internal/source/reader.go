package source

import (
	"os"
	"path/filepath"
)

// Reader reads a named source file. fstest.MapFS and other fs.ReadFileFS
// implementations satisfy it.
type Reader interface {
	ReadFile(name string) ([]byte, error)
}

// OSReader reads sources from a directory on disk.
type OSReader struct {
	Dir string
}

// ReadFile reads name relative to the reader's directory.
func (r OSReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(r.Dir, name))
}
