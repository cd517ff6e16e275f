package ipextract

import (
	"bytes"

	"github.com/ossobv/ipgrep/pkg/ipversion"
)

// CouldContainIPv4 returns false only if line cannot contain
// an IPv4 address, which needs a digit, a dot and a digit.
func CouldContainIPv4(line []byte) bool {
	offset := 0
	for {
		i := bytes.IndexByte(line[offset:], '.')
		if i < 0 {
			return false
		}
		i += offset
		if i > 0 && i+1 < len(line) && isDigit(line[i-1]) && isDigit(line[i+1]) {
			return true
		}
		offset = i + 1
	}
}

// CouldContainIPv6 returns false only if line cannot contain
// an IPv6 address, which needs a colon followed by a hex digit
// or another colon.
func CouldContainIPv6(line []byte) bool {
	offset := 0
	for {
		i := bytes.IndexByte(line[offset:], ':')
		if i < 0 {
			return false
		}
		i += offset
		if i+1 < len(line) && (isHexDigit(line[i+1]) || line[i+1] == ':') {
			return true
		}
		offset = i + 1
	}
}

func CouldContainIP(line []byte) bool {
	return CouldContainIPv4(line) || CouldContainIPv6(line)
}

// PrefilterFor returns the prefilter for the address
// families selected.
func PrefilterFor(version ipversion.IPVersion) func(line []byte) bool {
	switch version {
	case ipversion.IP4:
		return CouldContainIPv4
	case ipversion.IP6:
		return CouldContainIPv6
	default:
		return CouldContainIP
	}
}
