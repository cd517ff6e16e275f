package ipversion

import (
	"net/netip"
	"testing"

	"github.com/ossobv/ipgrep/pkg/ipnet"
	"github.com/stretchr/testify/assert"
)

func Test_FromNeedles(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		needles []string
		version IPVersion
	}{
		"no_needle": {
			version: IP4or6,
		},
		"ipv4_only": {
			needles: []string{"10.0.0.0/8", "1.2.3.4"},
			version: IP4,
		},
		"ipv6_only": {
			needles: []string{"::1", "::ffff:1.2.3.4"},
			version: IP6,
		},
		"mixed": {
			needles: []string{"10.0.0.0/8", "::1"},
			version: IP4or6,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			needles := make([]ipnet.Net, len(testCase.needles))
			for i, s := range testCase.needles {
				needles[i] = ipnet.MustParse(s)
			}

			version := FromNeedles(needles)

			assert.Equal(t, testCase.version, version)
		})
	}
}

func Test_IPVersion_Accepts(t *testing.T) {
	t.Parallel()

	ipv4 := netip.MustParseAddr("1.2.3.4")
	ipv6 := netip.MustParseAddr("::1")
	mapped := netip.MustParseAddr("::ffff:1.2.3.4")

	assert.True(t, IP4or6.Accepts(ipv4))
	assert.True(t, IP4or6.Accepts(ipv6))
	assert.True(t, IP4.Accepts(ipv4))
	assert.False(t, IP4.Accepts(ipv6))
	assert.False(t, IP4.Accepts(mapped))
	assert.True(t, IP6.Accepts(mapped))
	assert.False(t, IP6.Accepts(ipv4))
}

func Test_IPVersion_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ip4or6", IP4or6.String())
	assert.Equal(t, "ip4", IP4.String())
	assert.Equal(t, "ip6", IP6.String())
	assert.Equal(t, "ip?", IPVersion(9).String())
}
