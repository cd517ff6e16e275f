package ipextract

import (
	"errors"
	"fmt"
	"strings"
)

// Accept selects which textual forms are reported.
type Accept struct {
	// IP accepts bare addresses such as 10.0.0.1.
	IP bool
	// Net accepts networks with a numeric prefix length such as 10.0.0.0/8.
	Net bool
	// OldNet accepts networks with a dotted netmask such as 10.0.0.0/255.0.0.0.
	OldNet bool
	// Iface accepts interface addresses, which are networks with
	// host bits set such as 10.0.0.1/8.
	Iface bool
}

// DefaultAccept accepts addresses, networks and interface addresses.
func DefaultAccept() Accept {
	return Accept{IP: true, Net: true, Iface: true}
}

var (
	ErrAcceptEmpty   = errors.New("accept set is empty")
	ErrAcceptUnknown = errors.New("accept value is unknown")
)

// ParseAccept parses values such as "ip", "net,oldnet" or "if".
// Each value can hold several comma separated names.
func ParseAccept(values []string) (accept Accept, err error) {
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "":
			case "ip":
				accept.IP = true
			case "net", "n":
				accept.Net = true
			case "oldnet", "o":
				accept.OldNet = true
			case "iface", "if":
				accept.Iface = true
			default:
				return Accept{}, fmt.Errorf("%w: %q must be one of ip, net, oldnet or iface",
					ErrAcceptUnknown, name)
			}
		}
	}

	if accept.IsEmpty() {
		return Accept{}, ErrAcceptEmpty
	}
	return accept, nil
}

func (a Accept) IsEmpty() bool {
	return !a.IP && !a.Net && !a.OldNet && !a.Iface
}

func (a Accept) acceptsNetworks() bool {
	return a.Net || a.OldNet || a.Iface
}

func (a Accept) String() string {
	names := make([]string, 0, 4) //nolint:gomnd
	if a.IP {
		names = append(names, "ip")
	}
	if a.Net {
		names = append(names, "net")
	}
	if a.OldNet {
		names = append(names, "oldnet")
	}
	if a.Iface {
		names = append(names, "iface")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// InterfaceMode is the treatment of accepted interface addresses.
type InterfaceMode uint8

const (
	// TreatAsIP reports 10.20.30.123/24 as 10.20.30.123/32.
	TreatAsIP InterfaceMode = iota
	// TreatAsNetwork reports 10.20.30.123/24 as 10.20.30.0/24.
	TreatAsNetwork
	// ComplainAndSkip warns about the interface address and skips it.
	ComplainAndSkip
)

var ErrInterfaceModeUnknown = errors.New("interface mode is unknown")

func ParseInterfaceMode(s string) (mode InterfaceMode, err error) {
	switch strings.ToLower(s) {
	case "ip":
		return TreatAsIP, nil
	case "net", "n":
		return TreatAsNetwork, nil
	case "complain", "c":
		return ComplainAndSkip, nil
	default:
		return mode, fmt.Errorf("%w: %q must be one of ip, net or complain",
			ErrInterfaceModeUnknown, s)
	}
}

func (m InterfaceMode) String() string {
	switch m {
	case TreatAsIP:
		return "ip"
	case TreatAsNetwork:
		return "net"
	case ComplainAndSkip:
		return "complain"
	default:
		return "unknown"
	}
}
