//go:build unix

package files

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// dirID identifies a directory independently of the path used
// to reach it.
type dirID struct {
	device uint64
	inode  uint64
}

func getDirID(path string) (id dirID, err error) {
	var stat unix.Stat_t
	err = unix.Stat(path, &stat)
	if err != nil {
		return id, fmt.Errorf("%s: %w", path, err)
	}
	return dirID{
		device: uint64(stat.Dev), //nolint:unconvert
		inode:  uint64(stat.Ino), //nolint:unconvert
	}, nil
}
