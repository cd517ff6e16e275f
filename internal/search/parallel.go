package search

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ossobv/ipgrep/internal/output"
	"golang.org/x/sync/errgroup"
)

type sourceResult struct {
	output  *bytes.Buffer
	matches int
	err     error
}

// bufferWriter collects the output of one source.
type bufferWriter struct {
	*bytes.Buffer
}

func (bufferWriter) Flush() error { return nil }

// runParallel scans up to Jobs sources at the same time. Each source
// writes to its own buffer and the buffers are written to out in the
// order the walker returned the sources.
func (s *Searcher) runParallel(ctx context.Context, walker Walker,
	out *bufio.Writer) (result Result, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scanners := sync.Pool{
		New: func() any { return s.newScanner() },
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.settings.Jobs)

	// ordered holds one channel per source, in walker order.
	ordered := make(chan chan sourceResult, s.settings.Jobs)
	writerDone := make(chan struct{})
	var writeErr error
	go func() {
		defer close(writerDone)
		for resultCh := range ordered {
			sourceResult := <-resultCh
			if writeErr != nil {
				continue
			}
			writeErr = s.collect(&result, sourceResult, out)
			if writeErr != nil || (result.Matched && s.settings.Style == output.Quiet) {
				cancel()
			}
		}
	}()

	for groupCtx.Err() == nil {
		source, err := walker.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		resultCh := make(chan sourceResult, 1)
		ordered <- resultCh
		if err != nil {
			resultCh <- sourceResult{err: err}
			continue
		}

		group.Go(func() error {
			scanner := scanners.Get().(*scanner) //nolint:forcetypeassert
			defer scanners.Put(scanner)

			buffer := bytes.NewBuffer(nil)
			matches, err := scanner.scanSource(groupCtx, source, bufferWriter{buffer})
			resultCh <- sourceResult{output: buffer, matches: matches, err: err}
			return nil
		})
	}

	_ = group.Wait()
	close(ordered)
	<-writerDone

	switch {
	case writeErr != nil:
		return result, writeErr
	case result.Matched && s.settings.Style == output.Quiet:
		return result, nil
	}
	return result, ctx.Err()
}

// collect writes the output of a source and records its outcome.
func (s *Searcher) collect(result *Result, sourceResult sourceResult,
	out *bufio.Writer) (err error) {
	result.Matched = result.Matched || sourceResult.matches > 0

	if sourceResult.output != nil && sourceResult.output.Len() > 0 {
		_, err = out.Write(sourceResult.output.Bytes())
		if err == nil && s.settings.LineBuffered {
			err = out.Flush()
		}
		if err != nil {
			return fmt.Errorf("%w: %w", errOutput, err)
		}
	}

	switch {
	case sourceResult.err == nil,
		errors.Is(sourceResult.err, context.Canceled):
	case errors.Is(sourceResult.err, errOutput):
		return sourceResult.err
	default:
		s.settings.Logger.Error(sourceResult.err.Error())
		result.Failed = true
	}
	return nil
}
