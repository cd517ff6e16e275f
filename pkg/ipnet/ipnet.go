// Package ipnet defines the network value produced for every address or
// network found in text: an IP address paired with a prefix length,
// where the address keeps its host bits.
package ipnet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"net/netip"
	"strconv"

	"go4.org/netipx"
)

var (
	ErrAddressMalformed      = errors.New("address is malformed")
	ErrPrefixLengthMalformed = errors.New("prefix length is malformed")
	ErrPrefixLengthTooLarge  = errors.New("prefix length is too large")
	ErrNetmaskFamily         = errors.New("netmask notation is only valid for IPv4")
	ErrNetmaskNotContiguous  = errors.New("netmask is not contiguous")
)

// Net is an IP address with a prefix length. Unlike a masked
// netip.Prefix, the address keeps any host bits so interface
// addresses such as 10.20.30.123/24 can be told apart from
// the network 10.20.30.0/24.
// The zero value is not valid.
type Net struct {
	prefix netip.Prefix
}

// FromPrefix returns a Net keeping the address of the given
// prefix exactly as it is.
func FromPrefix(prefix netip.Prefix) Net {
	return Net{prefix: prefix}
}

// Parse parses an address, an address/bits or an IPv4
// address/dotted-netmask. An address without suffix is a
// host value with the full prefix length of its family.
func Parse(b []byte) (n Net, err error) {
	slashIndex := bytes.IndexByte(b, '/')
	addressBytes := b
	if slashIndex >= 0 {
		addressBytes = b[:slashIndex]
	}

	addr, err := netip.ParseAddr(string(addressBytes))
	if err != nil {
		return n, fmt.Errorf("%w: %s", ErrAddressMalformed, err)
	} else if addr.Zone() != "" {
		return n, fmt.Errorf("%w: zone %q is not supported", ErrAddressMalformed, addr.Zone())
	}

	if slashIndex < 0 {
		return Net{prefix: netip.PrefixFrom(addr, addr.BitLen())}, nil
	}

	suffix := b[slashIndex+1:]
	var prefixLength int
	if bytes.IndexByte(suffix, '.') >= 0 {
		if !addr.Is4() {
			return n, fmt.Errorf("%w: %s", ErrNetmaskFamily, addr)
		}
		prefixLength, err = parseNetmask(suffix)
	} else {
		prefixLength, err = parsePrefixLength(suffix, addr.BitLen())
	}
	if err != nil {
		return n, err
	}

	return Net{prefix: netip.PrefixFrom(addr, prefixLength)}, nil
}

// ParseString is Parse for a string.
func ParseString(s string) (n Net, err error) {
	return Parse([]byte(s))
}

// MustParse is like ParseString but panics on error.
func MustParse(s string) Net {
	n, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return n
}

func parsePrefixLength(b []byte, maxBits int) (prefixLength int, err error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrPrefixLengthMalformed)
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrPrefixLengthMalformed, b)
		}
	}

	prefixLength, err = strconv.Atoi(string(b))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrPrefixLengthMalformed, err)
	} else if prefixLength > maxBits {
		return 0, fmt.Errorf("%w: %d is larger than %d",
			ErrPrefixLengthTooLarge, prefixLength, maxBits)
	}
	return prefixLength, nil
}

func parseNetmask(b []byte) (prefixLength int, err error) {
	mask, err := netip.ParseAddr(string(b))
	if err != nil || !mask.Is4() {
		return 0, fmt.Errorf("%w: netmask %q", ErrAddressMalformed, b)
	}

	maskBytes := mask.As4()
	value := binary.BigEndian.Uint32(maskBytes[:])
	inverted := ^value
	if inverted&(inverted+1) != 0 {
		return 0, fmt.Errorf("%w: %s", ErrNetmaskNotContiguous, mask)
	}
	return bits.OnesCount32(value), nil
}

func (n Net) IsValid() bool { return n.prefix.IsValid() }

// Is4 returns true for IPv4 values. IPv4-mapped IPv6
// addresses are IPv6 values.
func (n Net) Is4() bool { return n.prefix.Addr().Is4() }

func (n Net) Is6() bool { return n.prefix.Addr().Is6() }

func (n Net) Addr() netip.Addr { return n.prefix.Addr() }

func (n Net) Bits() int { return n.prefix.Bits() }

func (n Net) Prefix() netip.Prefix { return n.prefix }

// HasHostBits returns true if any address bit beyond
// the prefix length is set.
func (n Net) HasHostBits() bool {
	return n.prefix.Masked().Addr() != n.prefix.Addr()
}

// AsHost returns the address with the full prefix length
// of its family.
func (n Net) AsHost() Net {
	addr := n.prefix.Addr()
	return Net{prefix: netip.PrefixFrom(addr, addr.BitLen())}
}

// AsNetwork returns the value with its host bits cleared.
func (n Net) AsNetwork() Net {
	return Net{prefix: n.prefix.Masked()}
}

// Range returns the inclusive address range covered by
// the network, ignoring host bits.
func (n Net) Range() netipx.IPRange {
	return netipx.RangeOfPrefix(n.prefix.Masked())
}

// String always includes the prefix length, for example
// 192.168.0.1/32 or ::ffff:10.0.0.2/127.
func (n Net) String() string {
	return n.prefix.String()
}
