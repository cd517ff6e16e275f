// Package files lists the inputs to search: standard input,
// files and, with recursion, the files below directories.
package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// StdinName is the name of the standard input source.
const StdinName = "(stdin)"

type Recursion uint8

const (
	// NoRecursion reports directories as errors.
	NoRecursion Recursion = iota
	// FollowDirectories recurses into directories without
	// following symbolic links found below the arguments.
	FollowDirectories
	// FollowSymlinks recurses into directories following
	// all symbolic links.
	FollowSymlinks
)

func (r Recursion) String() string {
	switch r {
	case NoRecursion:
		return "none"
	case FollowDirectories:
		return "directories"
	case FollowSymlinks:
		return "directories and symlinks"
	default:
		return "unknown"
	}
}

var ErrIsDirectory = errors.New("Is a directory") //nolint:stylecheck

type Warner interface {
	Warn(message string)
}

// Source is one input to search.
type Source struct {
	Name  string
	path  string
	stdin io.Reader
}

// Open opens the source for reading. Closing the returned
// reader of the standard input source does not close it.
func (s Source) Open() (io.ReadCloser, error) {
	if s.stdin != nil {
		return io.NopCloser(s.stdin), nil
	}
	return os.Open(s.path)
}

type entry struct {
	path   string
	stdin  bool
	follow bool
}

// Walker yields the sources to search, breadth first.
type Walker struct {
	queue     []entry
	recursion Recursion
	stdin     io.Reader
	warner    Warner
	dirsSeen  map[dirID]struct{}
}

// NewWalker returns a walker over the paths given. The path "-" and
// an empty path list both mean the standard input.
func NewWalker(paths []string, recursion Recursion,
	stdin io.Reader, warner Warner) *Walker {
	queue := make([]entry, 0, len(paths))
	for _, path := range paths {
		if path == "-" {
			queue = append(queue, entry{stdin: true})
			continue
		}
		queue = append(queue, entry{path: path, follow: true})
	}
	if len(queue) == 0 {
		queue = append(queue, entry{stdin: true})
	}

	return &Walker{
		queue:     queue,
		recursion: recursion,
		stdin:     stdin,
		warner:    warner,
		dirsSeen:  make(map[dirID]struct{}),
	}
}

// MultipleSources returns true if more than one source will be
// searched, which is when there are several paths or a directory.
// It must be called before Next.
func (w *Walker) MultipleSources() bool {
	switch {
	case len(w.queue) > 1:
		return true
	case len(w.queue) == 0 || w.queue[0].stdin:
		return false
	}
	info, err := os.Stat(w.queue[0].path)
	return err == nil && info.IsDir()
}

// Next returns the next source. It returns io.EOF once all
// sources are returned. Any other error concerns a single path
// and Next can be called again to continue with the next one.
func (w *Walker) Next() (source Source, err error) {
	for len(w.queue) > 0 {
		e := w.queue[0]
		w.queue = w.queue[1:]

		if e.stdin {
			return Source{Name: StdinName, stdin: w.stdin}, nil
		}

		var info fs.FileInfo
		if e.follow {
			info, err = os.Stat(e.path)
		} else {
			info, err = os.Lstat(e.path)
		}
		switch {
		case err != nil:
			return source, err
		case info.Mode()&fs.ModeSymlink != 0:
			// Only reached when not following symlinks.
			continue
		case info.IsDir():
			err = w.enterDirectory(e.path)
			if err != nil {
				return source, err
			}
			continue
		}

		return Source{Name: e.path, path: e.path}, nil
	}
	return source, io.EOF
}

func (w *Walker) enterDirectory(path string) (err error) {
	id, err := getDirID(path)
	if err != nil {
		return err
	}
	if _, seen := w.dirsSeen[id]; seen {
		w.warner.Warn(path + ": recursive directory loop")
		return nil
	}
	w.dirsSeen[id] = struct{}{}

	if w.recursion == NoRecursion {
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	follow := w.recursion == FollowSymlinks
	for _, dirEntry := range dirEntries {
		w.queue = append(w.queue, entry{
			path:   filepath.Join(path, dirEntry.Name()),
			follow: follow,
		})
	}
	return nil
}
