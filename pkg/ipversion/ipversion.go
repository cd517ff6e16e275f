// Package ipversion selects which address families are looked for.
package ipversion

import (
	"net/netip"

	"github.com/ossobv/ipgrep/pkg/ipnet"
)

type IPVersion uint8

const (
	IP4or6 IPVersion = iota
	IP4
	IP6
)

func (v IPVersion) String() string {
	switch v {
	case IP4or6:
		return "ip4or6"
	case IP4:
		return "ip4"
	case IP6:
		return "ip6"
	default:
		return "ip?"
	}
}

// FromNeedles returns the narrowest version covering all the
// needles given. No needle means both families.
func FromNeedles(needles []ipnet.Net) IPVersion {
	var has4, has6 bool
	for _, needle := range needles {
		if needle.Is4() {
			has4 = true
		} else {
			has6 = true
		}
	}

	switch {
	case has4 && !has6:
		return IP4
	case has6 && !has4:
		return IP6
	default:
		return IP4or6
	}
}

// Accepts returns true if the address family is selected.
// IPv4-mapped IPv6 addresses are IPv6.
func (v IPVersion) Accepts(addr netip.Addr) bool {
	switch v {
	case IP4:
		return addr.Is4()
	case IP6:
		return addr.Is6()
	default:
		return true
	}
}
