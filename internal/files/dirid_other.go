//go:build !unix

package files

import (
	"path/filepath"
)

// dirID identifies a directory by its absolute path, since
// device and inode numbers are not available.
type dirID struct {
	path string
}

func getDirID(path string) (id dirID, err error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return id, err
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return id, err
	}
	return dirID{path: resolved}, nil
}
