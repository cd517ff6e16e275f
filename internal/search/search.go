// Package search runs the needles against every line of the
// sources and writes the results.
package search

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ossobv/ipgrep/internal/files"
	"github.com/ossobv/ipgrep/internal/linectx"
	"github.com/ossobv/ipgrep/internal/output"
	"github.com/ossobv/ipgrep/pkg/ipextract"
	"github.com/ossobv/ipgrep/pkg/ipnet"
	"github.com/ossobv/ipgrep/pkg/match"
)

// Finder finds the networks in a line of text.
type Finder interface {
	AppendAll(dst []ipextract.Candidate, line []byte) []ipextract.Candidate
}

type Logger interface {
	Error(message string)
}

// Walker yields the sources to search.
type Walker interface {
	Next() (source files.Source, err error)
}

type noopLogger struct{}

func (noopLogger) Error(string) {}

type Settings struct {
	Finder  Finder
	Needles []ipnet.Net
	Mode    match.Mode
	Style   output.Style
	Display *output.Display
	Logger  Logger
	// Before and After are the numbers of context lines
	// written around matching lines, in the Lines style.
	Before int
	After  int
	// Jobs is the number of sources scanned in parallel.
	Jobs int
	// LineBuffered flushes the output after every line.
	LineBuffered bool
}

// Result summarizes a run over all the sources.
type Result struct {
	// Matched is true if any line matched.
	Matched bool
	// Failed is true if any source could not be read.
	Failed bool
}

type Searcher struct {
	settings Settings
}

func New(settings Settings) *Searcher {
	if settings.Jobs < 1 {
		settings.Jobs = 1
	}
	if settings.Logger == nil {
		settings.Logger = noopLogger{}
	}
	return &Searcher{settings: settings}
}

// Run searches every source of the walker and writes the results to w.
// Errors on a single source are logged and recorded in the result.
// The error returned is for output errors and context cancellation.
func (s *Searcher) Run(ctx context.Context, walker Walker, w io.Writer) (
	result Result, err error) {
	out := bufio.NewWriter(w)

	if s.settings.Jobs == 1 {
		result, err = s.runSequential(ctx, walker, out)
	} else {
		result, err = s.runParallel(ctx, walker, out)
	}

	flushErr := out.Flush()
	if err == nil && flushErr != nil {
		err = fmt.Errorf("writing output: %w", flushErr)
	}
	return result, err
}

func (s *Searcher) runSequential(ctx context.Context, walker Walker,
	out *bufio.Writer) (result Result, err error) {
	scanner := s.newScanner()
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		source, err := walker.Next()
		if errors.Is(err, io.EOF) {
			return result, nil
		} else if err != nil {
			s.settings.Logger.Error(err.Error())
			result.Failed = true
			continue
		}

		matches, err := scanner.scanSource(ctx, source, out)
		result.Matched = result.Matched || matches > 0
		switch {
		case errors.Is(err, errOutput):
			return result, err
		case err != nil:
			s.settings.Logger.Error(err.Error())
			result.Failed = true
		}

		if result.Matched && s.settings.Style == output.Quiet {
			return result, nil
		}
	}
}

var errOutput = errors.New("writing output")

// scanSource scans a single source, opening and closing it.
func (s *scanner) scanSource(ctx context.Context, source files.Source,
	out lineWriter) (matches int, err error) {
	reader, err := source.Open()
	if err != nil {
		return 0, err
	}

	matches, err = s.scan(ctx, source.Name, reader, out)
	closeErr := reader.Close()
	if err == nil && closeErr != nil {
		err = closeErr
	}
	return matches, err
}

// lineWriter is the output written by a scanner.
type lineWriter interface {
	io.Writer
	Flush() error
}

// scanner holds the buffers reused from one source to the next.
// It must not be used concurrently.
type scanner struct {
	settings   *Settings
	window     *linectx.Window
	candidates []ipextract.Candidate
	spans      []ipextract.Span
	long       []byte
	reader     *bufio.Reader
}

func (s *Searcher) newScanner() *scanner {
	before, after := 0, 0
	if s.settings.Style == output.Lines {
		before, after = s.settings.Before, s.settings.After
	}
	return &scanner{
		settings: &s.settings,
		window:   linectx.New(before, after),
	}
}

const readBufferSize = 64 * 1024

// scan searches the lines of r named name and writes the results to
// out. It returns the number of matches found. Read errors are wrapped
// with the name, output errors wrap errOutput.
func (s *scanner) scan(ctx context.Context, name string, r io.Reader,
	out lineWriter) (matches int, err error) {
	if s.reader == nil {
		s.reader = bufio.NewReaderSize(r, readBufferSize)
	} else {
		s.reader.Reset(r)
	}
	s.window.Reset()

	settings := s.settings
	display := settings.Display

	for lineNumber := 1; ; lineNumber++ {
		select {
		case <-ctx.Done():
			return matches, ctx.Err()
		default:
		}

		line, readErr := s.readLine()
		if len(line) == 0 && readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return matches, fmt.Errorf("%s: %w", name, readErr)
		}

		lineMatches, err := s.handleLine(name, lineNumber, line, out)
		if err != nil {
			return matches, fmt.Errorf("%w: %w", errOutput, err)
		}
		matches += lineMatches

		if lineMatches > 0 {
			switch settings.Style {
			case output.Quiet:
				return matches, nil
			case output.FilesWithMatches:
				err = display.Filename(out, name)
				if err == nil && settings.LineBuffered {
					err = out.Flush()
				}
				if err != nil {
					return matches, fmt.Errorf("%w: %w", errOutput, err)
				}
				return matches, nil
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return matches, fmt.Errorf("%s: %w", name, readErr)
		}
	}

	if settings.Style == output.Count {
		err = display.Count(out, name, matches)
		if err != nil {
			return matches, fmt.Errorf("%w: %w", errOutput, err)
		}
	}

	return matches, nil
}

// readLine returns the next line, including its new line if any.
// The line is only valid until the next call.
func (s *scanner) readLine() (line []byte, err error) {
	line, err = s.reader.ReadSlice('\n')
	if !errors.Is(err, bufio.ErrBufferFull) {
		return line, err
	}

	s.long = append(s.long[:0], line...)
	for errors.Is(err, bufio.ErrBufferFull) {
		line, err = s.reader.ReadSlice('\n')
		s.long = append(s.long, line...)
	}
	return s.long, err
}

// handleLine matches a line and writes it, its matches or its context
// depending on the output style. It returns the number of matches.
func (s *scanner) handleLine(name string, lineNumber int, line []byte,
	out lineWriter) (matches int, err error) {
	settings := s.settings

	s.candidates = settings.Finder.AppendAll(s.candidates[:0], line)
	s.spans = s.spans[:0]
	for _, candidate := range s.candidates {
		if settings.Mode.MatchesAny(candidate.Net, settings.Needles) {
			s.spans = append(s.spans, candidate.Span)
		}
	}

	if len(s.spans) == 0 {
		if !s.window.Enabled() {
			return 0, nil
		}
		if s.window.TakeAfter(lineNumber) {
			err = settings.Display.Line(out, name, lineNumber, line, nil, output.ContextDelimiter)
			return 0, s.flushLine(out, err)
		}
		s.window.Push(lineNumber, line)
		return 0, nil
	}

	switch settings.Style {
	case output.OnlyMatching:
		for _, span := range s.spans {
			err = settings.Display.Match(out, name, lineNumber, line[span.Start:span.End])
			if err != nil {
				return 0, err
			}
		}
		err = s.flushLine(out, nil)
	case output.Lines:
		err = s.writeMatchingLine(name, lineNumber, line, out)
	}
	return len(s.spans), err
}

func (s *scanner) writeMatchingLine(name string, lineNumber int, line []byte,
	out lineWriter) (err error) {
	display := s.settings.Display

	if s.window.Enabled() {
		if s.window.IsNewBlock(lineNumber) {
			err = display.GroupSeparator(out)
			if err != nil {
				return err
			}
		}
		for _, before := range s.window.Before() {
			err = display.Line(out, name, before.Number, before.Bytes, nil, output.ContextDelimiter)
			if err != nil {
				return err
			}
			s.window.BeforePrinted(before.Number)
		}
		s.window.Clear()
	}

	err = display.Line(out, name, lineNumber, line, s.spans, output.MatchDelimiter)
	s.window.MatchPrinted(lineNumber)
	return s.flushLine(out, err)
}

func (s *scanner) flushLine(out lineWriter, err error) error {
	if err != nil || !s.settings.LineBuffered {
		return err
	}
	return out.Flush()
}
