package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Style is what is written for each source.
type Style uint8

const (
	// Lines writes every matching line.
	Lines Style = iota
	// OnlyMatching writes every match on its own line.
	OnlyMatching
	// Count writes the number of matches per source.
	Count
	// FilesWithMatches writes the name of sources with a match.
	FilesWithMatches
	// Quiet writes nothing and stops at the first match.
	Quiet
)

func (s Style) String() string {
	switch s {
	case Lines:
		return "lines"
	case OnlyMatching:
		return "only matching"
	case Count:
		return "count"
	case FilesWithMatches:
		return "files with matches"
	case Quiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// StyleFrom picks the style from the flags given, in order
// of precedence quiet, files with matches, count and only
// matching. No flag means Lines.
func StyleFrom(quiet, filesWithMatches, count, onlyMatching bool) Style {
	switch {
	case quiet:
		return Quiet
	case filesWithMatches:
		return FilesWithMatches
	case count:
		return Count
	case onlyMatching:
		return OnlyMatching
	default:
		return Lines
	}
}

// ColorMode decides if output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var ErrColorModeUnknown = errors.New("color mode is unknown")

func ParseColorMode(s string) (mode ColorMode, err error) {
	switch strings.ToLower(s) {
	case "auto", "tty", "if-tty":
		return ColorAuto, nil
	case "always", "yes", "force":
		return ColorAlways, nil
	case "never", "no", "none":
		return ColorNever, nil
	default:
		return mode, fmt.Errorf("%w: %q must be one of auto, always or never",
			ErrColorModeUnknown, s)
	}
}

// Enabled returns true if colors are used when writing to w.
// In auto mode, w must be a terminal file.
func (c ColorMode) Enabled(w io.Writer) bool {
	switch c {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	_, noColor := os.LookupEnv("NO_COLOR")
	return !noColor && os.Getenv("TERM") != "dumb" && IsTerminal(w)
}

// IsTerminal returns true if w is a terminal file.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
