// Package ipextract finds IP addresses and networks in text.
package ipextract

import (
	"bytes"
	"fmt"

	"github.com/ossobv/ipgrep/pkg/ipnet"
	"github.com/ossobv/ipgrep/pkg/ipversion"
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gotree"
)

//go:generate mockgen -destination=mock_$GOPACKAGE/$GOFILE . Warner

// Warner receives one line per interface address skipped
// in the ComplainAndSkip interface mode.
type Warner interface {
	Warn(message string)
}

// Candidate is a network found in text with its position.
type Candidate struct {
	Span
	Net ipnet.Net
}

type Settings struct {
	// Accept defaults to DefaultAccept().
	Accept *Accept
	// InterfaceMode defaults to TreatAsIP.
	InterfaceMode *InterfaceMode
	// IPVersion filters the address families reported.
	// It defaults to ipversion.IP4or6.
	IPVersion *ipversion.IPVersion
	// Warner defaults to discarding warnings.
	Warner Warner
	// DisablePrefilter defaults to false. Disabling the
	// prefilter does not change the results.
	DisablePrefilter *bool
}

func (s *Settings) SetDefaults() {
	s.Accept = gosettings.DefaultPointer(s.Accept, DefaultAccept())
	s.InterfaceMode = gosettings.DefaultPointer(s.InterfaceMode, TreatAsIP)
	s.IPVersion = gosettings.DefaultPointer(s.IPVersion, ipversion.IP4or6)
	if s.Warner == nil {
		s.Warner = noopWarner{}
	}
	s.DisablePrefilter = gosettings.DefaultPointer(s.DisablePrefilter, false)
}

func (s Settings) Validate() (err error) {
	if s.Accept.IsEmpty() {
		return ErrAcceptEmpty
	}

	switch *s.InterfaceMode {
	case TreatAsIP, TreatAsNetwork, ComplainAndSkip:
	default:
		return fmt.Errorf("%w: %d", ErrInterfaceModeUnknown, *s.InterfaceMode)
	}

	return nil
}

func (s Settings) String() string {
	return s.ToLinesNode().String()
}

func (s Settings) ToLinesNode() *gotree.Node {
	node := gotree.New("Extraction")
	node.Appendf("Accept: %s", s.Accept)
	node.Appendf("Interface mode: %s", s.InterfaceMode)
	node.Appendf("IP version: %s", s.IPVersion)
	node.Appendf("Prefilter: %s", gosettings.BoolToYesNo(ptrTo(!*s.DisablePrefilter)))
	return node
}

func ptrTo[T any](v T) *T { return &v }

type noopWarner struct{}

func (noopWarner) Warn(string) {}

// Extractor finds the networks accepted in a line of text.
// It is safe for concurrent use.
type Extractor struct {
	accept        Accept
	interfaceMode InterfaceMode
	ipVersion     ipversion.IPVersion
	warner        Warner
	prefilter     func(line []byte) bool
}

func New(settings Settings) (extractor *Extractor, err error) {
	settings.SetDefaults()
	err = settings.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}

	prefilter := PrefilterFor(*settings.IPVersion)
	if *settings.DisablePrefilter {
		prefilter = func([]byte) bool { return true }
	}

	return &Extractor{
		accept:        *settings.Accept,
		interfaceMode: *settings.InterfaceMode,
		ipVersion:     *settings.IPVersion,
		warner:        settings.Warner,
		prefilter:     prefilter,
	}, nil
}

// FindAll returns the candidates accepted in line,
// from left to right.
func (e *Extractor) FindAll(line []byte) (candidates []Candidate) {
	return e.AppendAll(nil, line)
}

// AppendAll appends the candidates accepted in line to dst
// and returns the extended slice.
func (e *Extractor) AppendAll(dst []Candidate, line []byte) []Candidate {
	if !e.prefilter(line) {
		return dst
	}

	scanner := NewScanner(line, e.accept.OldNet)
	for {
		span, ok := scanner.Next()
		if !ok {
			return dst
		}
		candidate, ok := e.validate(line, span)
		if ok {
			dst = append(dst, candidate)
		}
	}
}

func (e *Extractor) validate(line []byte, span Span) (candidate Candidate, ok bool) {
	token := line[span.Start:span.End]
	slash := bytes.IndexByte(token, '/')
	dotted := false

	switch {
	case slash < 0:
		if !e.accept.IP {
			return candidate, false
		}
	case !e.accept.acceptsNetworks():
		if !e.accept.IP {
			return candidate, false
		}
		token = token[:slash]
		span.End = span.Start + slash
		slash = -1
	default:
		dotted = bytes.IndexByte(token[slash+1:], '.') >= 0
		if e.accept.OldNet && !e.accept.Net && !dotted {
			return candidate, false
		}
	}

	net, err := ipnet.Parse(token)
	if err != nil {
		return candidate, false
	}

	switch {
	case net.HasHostBits():
		if !e.accept.Iface {
			return candidate, false
		}
		switch e.interfaceMode {
		case TreatAsIP:
			net = net.AsHost()
		case TreatAsNetwork:
			net = net.AsNetwork()
		default:
			e.warner.Warn("ignoring interface address with host bits set: " + net.String())
			return candidate, false
		}
	case slash >= 0:
		if (dotted && !e.accept.OldNet) || (!dotted && !e.accept.Net) {
			return candidate, false
		}
	}

	if !e.ipVersion.Accepts(net.Addr()) {
		return candidate, false
	}

	return Candidate{Span: span, Net: net}, true
}
