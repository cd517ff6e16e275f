package ipnet

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrHostBitsSet  = errors.New("needle cannot have host bits set")
	ErrNeedlesEmpty = errors.New("no needle given")
)

// ParseNeedle parses a value to search for. A needle is either
// an address or a network without host bits.
func ParseNeedle(s string) (needle Net, err error) {
	needle, err = ParseString(s)
	if err != nil {
		return needle, fmt.Errorf("invalid ip/net as needle %q: %w", s, err)
	}

	if needle.HasHostBits() {
		return Net{}, fmt.Errorf("%w: %s", ErrHostBitsSet, s)
	}

	return needle, nil
}

// ParseNeedles parses a comma and/or whitespace separated
// list of needles.
func ParseNeedles(s string) (needles []Net, err error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, ErrNeedlesEmpty
	}

	needles = make([]Net, len(fields))
	for i, field := range fields {
		needles[i], err = ParseNeedle(field)
		if err != nil {
			return nil, err
		}
	}
	return needles, nil
}
