package linectx

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(n int) []byte {
	return []byte("line" + strconv.Itoa(n) + "\n")
}

func Test_Window_Push(t *testing.T) {
	t.Parallel()

	w := New(2, 0)
	w.Push(1, line(1))
	w.Push(2, line(2))
	w.Push(3, line(3))

	expected := []Line{
		{Number: 2, Bytes: line(2)},
		{Number: 3, Bytes: line(3)},
	}
	assert.Equal(t, expected, w.Before())

	w.Clear()
	assert.Empty(t, w.Before())
}

func Test_Window_Push_copiesLine(t *testing.T) {
	t.Parallel()

	w := New(1, 0)
	buffer := []byte("first\n")
	w.Push(1, buffer)
	copy(buffer, "xxxxx\n")

	assert.Equal(t, []byte("first\n"), w.Before()[0].Bytes)
}

func Test_Window_Push_noBefore(t *testing.T) {
	t.Parallel()

	w := New(0, 3)
	w.Push(1, line(1))

	assert.Empty(t, w.Before())
	assert.True(t, w.Enabled())
	assert.False(t, New(0, 0).Enabled())
}

func Test_Window_TakeAfter(t *testing.T) {
	t.Parallel()

	w := New(0, 2)
	assert.False(t, w.TakeAfter(1))

	w.MatchPrinted(2)
	assert.True(t, w.TakeAfter(3))
	assert.True(t, w.TakeAfter(4))
	assert.False(t, w.TakeAfter(5))
}

func Test_Window_IsNewBlock(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		before     int
		after      int
		scenario   func(w *Window)
		lineNumber int
		newBlock   bool
	}{
		"nothing_printed_yet": {
			before:     1,
			lineNumber: 10,
		},
		"adjacent_to_after_lines": {
			after: 1,
			scenario: func(w *Window) {
				w.MatchPrinted(1)
				w.TakeAfter(2)
			},
			lineNumber: 3,
		},
		"gap_after_match": {
			after: 1,
			scenario: func(w *Window) {
				w.MatchPrinted(1)
				w.TakeAfter(2)
			},
			lineNumber: 5,
			newBlock:   true,
		},
		"before_lines_join_previous_block": {
			before: 2,
			scenario: func(w *Window) {
				w.MatchPrinted(1)
				w.Push(2, line(2))
				w.Push(3, line(3))
			},
			lineNumber: 4,
		},
		"before_lines_after_gap": {
			before: 2,
			scenario: func(w *Window) {
				w.MatchPrinted(1)
				w.Push(2, line(2))
				w.Push(3, line(3))
				w.Push(4, line(4))
			},
			lineNumber: 5,
			newBlock:   true,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := New(testCase.before, testCase.after)
			if testCase.scenario != nil {
				testCase.scenario(w)
			}

			assert.Equal(t, testCase.newBlock, w.IsNewBlock(testCase.lineNumber))
		})
	}
}

func Test_Window_Reset(t *testing.T) {
	t.Parallel()

	w := New(1, 1)
	w.MatchPrinted(1)
	w.Push(5, line(5))
	w.Reset()

	assert.Empty(t, w.Before())
	assert.False(t, w.TakeAfter(6))
	assert.False(t, w.IsNewBlock(10))
}
