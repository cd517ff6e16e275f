package ipextract

import "bytes"

// Span is a half-open byte range [Start, End) into a buffer.
type Span struct {
	Start int
	End   int
}

type state uint8

const (
	stateIdle state = iota
	stateInV4
	stateInV6
	stateInSuffixNumeric
	stateInSuffixDotted
	stateEmit
	stateDone
)

// minIPv4Length is the length of the shortest IPv4 literal, 1.1.1.1
const minIPv4Length = 7

// mappedPrefix precedes the dotted part of an IPv4-mapped IPv6 address.
var mappedPrefix = []byte("::ffff:") //nolint:gochecknoglobals

// Scanner finds byte ranges shaped like IP addresses or networks.
// It does not validate octet or group values, which is left to
// the caller. A Scanner is not safe for concurrent use and cannot
// be restarted.
type Scanner struct {
	buf    []byte
	oldNet bool
	cursor int
	state  state
	token  token
}

type token struct {
	start int
	// end is the end of the token so far. While in a suffix
	// state, it is the position of the slash.
	end int
	// numericEnd is the end of the numeric prefix length,
	// kept to roll back a failed dotted netmask.
	numericEnd int
	// resume is where scanning continues after the token.
	resume int
}

// NewScanner returns a scanner over buf. If oldNet is true,
// dotted netmask suffixes such as /255.255.0.0 are part of
// the tokens found.
func NewScanner(buf []byte, oldNet bool) *Scanner {
	return &Scanner{
		buf:    buf,
		oldNet: oldNet,
	}
}

// Next returns the next candidate span and true, or false
// once the buffer is exhausted.
func (s *Scanner) Next() (span Span, ok bool) {
	for {
		switch s.state {
		case stateIdle:
			s.state = s.idle()
		case stateInV4:
			s.state = s.inV4()
		case stateInV6:
			s.state = s.inV6()
		case stateInSuffixNumeric:
			s.state = s.inSuffixNumeric()
		case stateInSuffixDotted:
			s.state = s.inSuffixDotted()
		case stateEmit:
			s.state = stateIdle
			span, ok = s.emit()
			if ok {
				return span, true
			}
		case stateDone:
			return Span{}, false
		}
	}
}

// idle looks for the first byte of a token and decides which
// family path to follow.
func (s *Scanner) idle() state {
	buf := s.buf
	i := s.cursor
	for i < len(buf) {
		c := buf[i]
		if !isStartByte(c) || (i > 0 && isAlnum(buf[i-1])) {
			i++
			continue
		}

		s.token = token{start: i}
		if len(buf)-i < minIPv4Length || !isDigit(c) {
			return stateInV6
		}

		const maxGroupDigits = 4
		j := i
		for j < len(buf) && j-i < maxGroupDigits && isDigit(buf[j]) {
			j++
		}
		if j < len(buf) {
			next := buf[j]
			switch {
			case next == '.' && j-i <= 3:
				return stateInV4
			case next == ':' || isHexLetter(next):
				return stateInV6
			}
		}

		i = skipDigits(buf, j)
	}

	s.cursor = len(buf)
	return stateDone
}

func (s *Scanner) inV4() state {
	buf := s.buf
	pos := s.token.start
	for group := 0; group < 4; group++ {
		if group > 0 {
			if pos+1 >= len(buf) || buf[pos] != '.' || !isDigit(buf[pos+1]) {
				s.cursor = pos
				return stateIdle
			}
			pos++
		}
		groupStart := pos
		pos = skipDigits(buf, pos)
		if pos-groupStart > 3 {
			s.cursor = pos
			return stateIdle
		}
	}

	s.token.end = pos
	if pos < len(buf) {
		c := buf[pos]
		switch {
		case c == '.' && pos+1 < len(buf) && isDigit(buf[pos+1]):
			// A fifth octet rejects the whole dotted run.
			s.cursor = skipDigitsAndDots(buf, pos)
			return stateIdle
		case isLetter(c):
			s.cursor = skipAlnums(buf, pos)
			return stateIdle
		case c == '/':
			return stateInSuffixNumeric
		}
	}

	s.token.resume = pos
	return stateEmit
}

func (s *Scanner) inV6() state {
	buf := s.buf
	start := s.token.start
	pos, groupStart, colons := start, start, 0
	hexDotted := false

loop:
	for pos < len(buf) {
		c := buf[pos]
		switch {
		case c == ':':
			colons++
			pos++
			groupStart = pos
		case isHexDigit(c):
			pos++
		case c == '.':
			if pos+1 == len(buf) || isDelimiter(buf[pos+1]) {
				// Trailing period, as at the end of a sentence.
				break loop
			}
			if end, ok := s.mappedTail(start, groupStart, pos); ok {
				pos = end
			} else if isDecimal(buf[groupStart:pos]) {
				// Leave the dotted part for the next token.
				pos = groupStart
			} else {
				hexDotted = colons == 0
			}
			break loop
		case isLetter(c):
			colons = 0
			pos = skipAlnums(buf, pos)
			break loop
		default:
			break loop
		}
	}

	// A single trailing colon before a delimiter is punctuation.
	if pos-start >= 2 && buf[pos-1] == ':' && buf[pos-2] != ':' &&
		(pos == len(buf) || isDelimiter(buf[pos])) {
		pos--
		colons--
	}

	if colons < 2 {
		if hexDotted {
			// A hex word glued to a dotted run rejects the whole run.
			pos = skipDigitsAndDots(buf, pos)
		}
		s.cursor = max(pos, start+1)
		return stateIdle
	}

	s.token.end = pos
	if pos < len(buf) && buf[pos] == '/' {
		return stateInSuffixNumeric
	}
	s.token.resume = pos
	return stateEmit
}

// mappedTail returns the end of the dotted IPv4 part of an
// IPv4-mapped IPv6 address, where dotStart is the position of
// the first dot.
func (s *Scanner) mappedTail(start, groupStart, dotStart int) (end int, ok bool) {
	buf := s.buf
	group := buf[groupStart:dotStart]
	if len(group) == 0 || len(group) > 3 || !isDecimal(group) ||
		groupStart-start < len(mappedPrefix) ||
		!bytes.EqualFold(buf[groupStart-len(mappedPrefix):groupStart], mappedPrefix) {
		return 0, false
	}
	return scanDottedQuad(buf, groupStart)
}

func (s *Scanner) inSuffixNumeric() state {
	buf := s.buf
	slash := s.token.end
	digitsEnd := skipDigits(buf, slash+1)
	digits := digitsEnd - (slash + 1)

	switch {
	case digits == 0 || digits > 3:
		s.token.resume = slash
	case digitsEnd+1 < len(buf) && buf[digitsEnd] == '.' && isDigit(buf[digitsEnd+1]):
		if s.oldNet {
			s.token.numericEnd = digitsEnd
			return stateInSuffixDotted
		}
		// Without netmask recognition the dotted suffix
		// is a token of its own.
		s.token.resume = slash + 1
	default:
		s.token.end = digitsEnd
		s.token.resume = digitsEnd
	}
	return stateEmit
}

func (s *Scanner) inSuffixDotted() state {
	buf := s.buf
	end, ok := scanDottedQuad(buf, s.token.end+1)
	if ok && !(end+1 < len(buf) && buf[end] == '.' && isDigit(buf[end+1])) {
		s.token.end = end
		s.token.resume = end
		return stateEmit
	}

	// Roll back to the numeric prefix length and do not
	// offer the rest of the dotted run again.
	s.token.end = s.token.numericEnd
	s.token.resume = skipDigitsAndDots(buf, s.token.end)
	return stateEmit
}

func (s *Scanner) emit() (span Span, ok bool) {
	end := s.token.end
	if end < len(s.buf) && isAlnum(s.buf[end]) {
		s.cursor = end
		return Span{}, false
	}
	s.cursor = s.token.resume
	return Span{Start: s.token.start, End: end}, true
}

// scanDottedQuad scans four dot separated groups of one
// to three decimal digits starting at pos.
func scanDottedQuad(buf []byte, pos int) (end int, ok bool) {
	for group := 0; group < 4; group++ {
		if group > 0 {
			if pos >= len(buf) || buf[pos] != '.' {
				return 0, false
			}
			pos++
		}
		groupStart := pos
		pos = skipDigits(buf, pos)
		if digits := pos - groupStart; digits == 0 || digits > 3 {
			return 0, false
		}
	}
	return pos, true
}

func skipDigits(buf []byte, pos int) int {
	for pos < len(buf) && isDigit(buf[pos]) {
		pos++
	}
	return pos
}

func skipDigitsAndDots(buf []byte, pos int) int {
	for pos < len(buf) && (isDigit(buf[pos]) || buf[pos] == '.') {
		pos++
	}
	return pos
}

func skipAlnums(buf []byte, pos int) int {
	for pos < len(buf) && isAlnum(buf[pos]) {
		pos++
	}
	return pos
}

func isDecimal(b []byte) bool {
	for _, c := range b {
		if !isDigit(c) {
			return false
		}
	}
	return len(b) > 0
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', ',', ';', '(', ')', '[', ']', '<', '>', '"', '\'':
		return true
	}
	return false
}

func isStartByte(c byte) bool { return isHexDigit(c) || c == ':' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexLetter(c byte) bool { return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

func isHexDigit(c byte) bool { return isDigit(c) || isHexLetter(c) }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isAlnum(c byte) bool { return isDigit(c) || isLetter(c) }
