// Package output formats search results the way grep does.
package output

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/ossobv/ipgrep/pkg/ipextract"
)

// Delimiters between the prefix fields and the line.
const (
	MatchDelimiter   byte = ':'
	ContextDelimiter byte = '-'
)

type Settings struct {
	// ShowFilename prefixes lines and counts with the source name.
	ShowFilename bool
	// LineNumber prefixes lines with their line number.
	LineNumber bool
	// NullAfterFilename ends file names with a NUL byte
	// instead of a new line.
	NullAfterFilename bool
	// Color highlights matches, line numbers, delimiters
	// and file names.
	Color bool
}

type Display struct {
	settings  Settings
	match     *color.Color
	lineNo    *color.Color
	delimiter *color.Color
	filename  *color.Color
}

func New(settings Settings) *Display {
	d := &Display{
		settings:  settings,
		match:     color.New(color.FgRed, color.Bold),
		lineNo:    color.New(color.FgGreen),
		delimiter: color.New(color.FgCyan),
		filename:  color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{d.match, d.lineNo, d.delimiter, d.filename} {
		if settings.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return d
}

// Filename writes the name of a source with a match.
func (d *Display) Filename(w io.Writer, name string) error {
	sw := stickyWriter{w: w}
	d.colored(&sw, d.filename, name)
	if d.settings.NullAfterFilename {
		sw.writeByte(0)
	} else {
		sw.writeByte('\n')
	}
	return sw.err
}

// Count writes the number of matches of a source.
func (d *Display) Count(w io.Writer, name string, count int) error {
	sw := stickyWriter{w: w}
	if d.settings.ShowFilename {
		d.colored(&sw, d.filename, name)
		d.colored(&sw, d.delimiter, string(MatchDelimiter))
	}
	sw.writeString(strconv.Itoa(count))
	sw.writeByte('\n')
	return sw.err
}

// Match writes a single matching text on its own line.
func (d *Display) Match(w io.Writer, name string, lineNumber int, text []byte) error {
	sw := stickyWriter{w: w}
	d.prefix(&sw, name, lineNumber, MatchDelimiter)
	if d.settings.Color {
		d.colored(&sw, d.match, string(text))
	} else {
		sw.write(text)
	}
	sw.writeByte('\n')
	return sw.err
}

// Line writes a full line, highlighting the spans given. The delimiter
// is MatchDelimiter for matching lines and ContextDelimiter for
// context lines. A new line is added if the line has none.
func (d *Display) Line(w io.Writer, name string, lineNumber int,
	line []byte, spans []ipextract.Span, delimiter byte) error {
	sw := stickyWriter{w: w}
	d.prefix(&sw, name, lineNumber, delimiter)

	if !d.settings.Color || len(spans) == 0 {
		sw.write(line)
	} else {
		previousEnd := 0
		for _, span := range spans {
			sw.write(line[previousEnd:span.Start])
			d.colored(&sw, d.match, string(line[span.Start:span.End]))
			previousEnd = span.End
		}
		sw.write(line[previousEnd:])
	}

	if len(line) == 0 || line[len(line)-1] != '\n' {
		sw.writeByte('\n')
	}
	return sw.err
}

// GroupSeparator writes the separator between non adjacent
// groups of context lines.
func (d *Display) GroupSeparator(w io.Writer) error {
	sw := stickyWriter{w: w}
	d.colored(&sw, d.delimiter, "--")
	sw.writeByte('\n')
	return sw.err
}

func (d *Display) prefix(sw *stickyWriter, name string, lineNumber int, delimiter byte) {
	if d.settings.ShowFilename {
		d.colored(sw, d.filename, name)
		d.colored(sw, d.delimiter, string(delimiter))
	}
	if d.settings.LineNumber {
		d.colored(sw, d.lineNo, strconv.Itoa(lineNumber))
		d.colored(sw, d.delimiter, string(delimiter))
	}
}

func (d *Display) colored(sw *stickyWriter, c *color.Color, s string) {
	if d.settings.Color {
		s = c.Sprint(s)
	}
	sw.writeString(s)
}

// stickyWriter keeps the first write error and
// skips the writes following it.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) write(b []byte) {
	if s.err != nil || len(b) == 0 {
		return
	}
	_, s.err = s.w.Write(b)
}

func (s *stickyWriter) writeString(str string) {
	if s.err != nil || len(str) == 0 {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func (s *stickyWriter) writeByte(b byte) {
	s.write([]byte{b})
}
