// Package match compares a network found in text (the haystack)
// with a network searched for (the needle).
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ossobv/ipgrep/pkg/ipnet"
)

type Mode uint8

const (
	// Contains matches when the haystack range covers the needle range.
	Contains Mode = iota
	// Within matches when the needle range covers the haystack range.
	Within
	// Equals matches identical address and prefix length.
	Equals
	// Overlaps matches when the two ranges share at least one address.
	Overlaps
)

func (m Mode) String() string {
	switch m {
	case Contains:
		return "contains"
	case Within:
		return "within"
	case Equals:
		return "equals"
	case Overlaps:
		return "overlaps"
	default:
		return "unknown"
	}
}

var ErrModeUnknown = errors.New("match mode is unknown")

// ParseMode parses a mode name or its one letter alias.
func ParseMode(s string) (mode Mode, err error) {
	switch strings.ToLower(s) {
	case "contains", "c":
		return Contains, nil
	case "within", "w":
		return Within, nil
	case "equals", "e":
		return Equals, nil
	case "overlaps", "o":
		return Overlaps, nil
	default:
		return mode, fmt.Errorf("%w: %q must be one of contains, within, equals or overlaps",
			ErrModeUnknown, s)
	}
}

// Matches returns false for networks of different families,
// including IPv4 against IPv4-mapped IPv6.
func (m Mode) Matches(haystack, needle ipnet.Net) bool {
	if haystack.Is4() != needle.Is4() {
		return false
	}

	switch m {
	case Equals:
		return haystack == needle
	case Contains:
		return covers(haystack, needle)
	case Within:
		return covers(needle, haystack)
	case Overlaps:
		return haystack.Range().Overlaps(needle.Range())
	default:
		return false
	}
}

// MatchesAny returns true if the haystack matches at least one needle.
func (m Mode) MatchesAny(haystack ipnet.Net, needles []ipnet.Net) bool {
	for _, needle := range needles {
		if m.Matches(haystack, needle) {
			return true
		}
	}
	return false
}

func covers(outer, inner ipnet.Net) bool {
	outerRange, innerRange := outer.Range(), inner.Range()
	return outerRange.Contains(innerRange.From()) &&
		outerRange.Contains(innerRange.To())
}
