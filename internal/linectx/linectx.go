// Package linectx keeps track of the lines to print around
// matching lines.
package linectx

// Line is a numbered line of input. Line numbers start at 1.
type Line struct {
	Number int
	Bytes  []byte
}

// Window holds up to `before` non matching lines seen since
// the last printed line, and counts down the non matching
// lines to print after a match.
// The zero value is a window without context.
type Window struct {
	before         int
	after          int
	queue          []Line
	afterRemaining int
	lastPrinted    int
}

func New(before, after int) *Window {
	return &Window{
		before: before,
		after:  after,
		queue:  make([]Line, 0, before),
	}
}

// Enabled returns true if any context line is wanted.
func (w *Window) Enabled() bool {
	return w.before > 0 || w.after > 0
}

// IsNewBlock returns true if a separator must be printed before
// the match at lineNumber and its before lines, because they do not
// directly follow the last printed line.
func (w *Window) IsNewBlock(lineNumber int) bool {
	if w.lastPrinted == 0 {
		return false
	}
	first := lineNumber
	if len(w.queue) > 0 {
		first = w.queue[0].Number
	}
	return first > w.lastPrinted+1
}

// Before returns the buffered before lines, oldest first.
// The slice is only valid until the next call to Push or Clear.
func (w *Window) Before() []Line {
	return w.queue
}

// Clear drops the before lines, once printed.
func (w *Window) Clear() {
	w.queue = w.queue[:0]
}

// Push buffers a non matching line which is not printed as an
// after line. The line bytes are copied.
func (w *Window) Push(lineNumber int, line []byte) {
	if w.before == 0 {
		return
	}

	if len(w.queue) == w.before {
		// Recycle the oldest line buffer.
		oldest := w.queue[0]
		copy(w.queue, w.queue[1:])
		w.queue = w.queue[:len(w.queue)-1]
		oldest.Number = lineNumber
		oldest.Bytes = append(oldest.Bytes[:0], line...)
		w.queue = append(w.queue, oldest)
		return
	}

	w.queue = append(w.queue, Line{
		Number: lineNumber,
		Bytes:  append([]byte(nil), line...),
	})
}

// MatchPrinted records a printed matching line and starts
// counting down its after lines.
func (w *Window) MatchPrinted(lineNumber int) {
	w.lastPrinted = lineNumber
	w.afterRemaining = w.after
}

// TakeAfter returns true if the non matching line at lineNumber
// must be printed as an after line, and records it as printed.
func (w *Window) TakeAfter(lineNumber int) bool {
	if w.afterRemaining == 0 {
		return false
	}
	w.afterRemaining--
	w.lastPrinted = lineNumber
	return true
}

// BeforePrinted records the before line printed at lineNumber.
func (w *Window) BeforePrinted(lineNumber int) {
	w.lastPrinted = lineNumber
}

// Reset prepares the window for a new input.
func (w *Window) Reset() {
	w.Clear()
	w.afterRemaining = 0
	w.lastPrinted = 0
}
