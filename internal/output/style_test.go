package output

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_StyleFrom(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		quiet, filesWithMatches, count, onlyMatching bool
		style                                        Style
	}{
		"none":               {style: Lines},
		"only_matching":      {onlyMatching: true, style: OnlyMatching},
		"count_over_only":    {count: true, onlyMatching: true, style: Count},
		"files_over_count":   {filesWithMatches: true, count: true, style: FilesWithMatches},
		"quiet_over_all":     {quiet: true, filesWithMatches: true, count: true, onlyMatching: true, style: Quiet},
		"files_with_matches": {filesWithMatches: true, style: FilesWithMatches},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			style := StyleFrom(testCase.quiet, testCase.filesWithMatches,
				testCase.count, testCase.onlyMatching)

			assert.Equal(t, testCase.style, style)
		})
	}
}

func Test_ParseColorMode(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s          string
		mode       ColorMode
		errWrapped error
	}{
		"auto":    {s: "auto", mode: ColorAuto},
		"always":  {s: "Always", mode: ColorAlways},
		"never":   {s: "never", mode: ColorNever},
		"tty":     {s: "tty", mode: ColorAuto},
		"unknown": {s: "sometimes", errWrapped: ErrColorModeUnknown},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mode, err := ParseColorMode(testCase.s)

			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.mode, mode)
		})
	}
}

func Test_ColorMode_Enabled(t *testing.T) {
	t.Parallel()

	file, err := os.CreateTemp(t.TempDir(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	assert.True(t, ColorAlways.Enabled(file))
	assert.False(t, ColorNever.Enabled(file))
	assert.False(t, ColorAuto.Enabled(file))
	assert.False(t, IsTerminal(file))
	assert.False(t, ColorAuto.Enabled(io.Discard))
}
