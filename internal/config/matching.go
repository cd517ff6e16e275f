package config

import (
	"fmt"

	"github.com/ossobv/ipgrep/pkg/ipextract"
	"github.com/ossobv/ipgrep/pkg/ipversion"
	"github.com/ossobv/ipgrep/pkg/match"
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Matching struct {
	Accept        *ipextract.Accept
	InterfaceMode *ipextract.InterfaceMode
	Mode          *match.Mode
	// DisablePrefilter is only set from the command line.
	DisablePrefilter *bool
}

func (m *Matching) setDefaults() {
	m.Accept = gosettings.DefaultPointer(m.Accept, ipextract.DefaultAccept())
	m.InterfaceMode = gosettings.DefaultPointer(m.InterfaceMode, ipextract.TreatAsIP)
	m.Mode = gosettings.DefaultPointer(m.Mode, match.Contains)
	m.DisablePrefilter = gosettings.DefaultPointer(m.DisablePrefilter, false)
}

func (m Matching) Validate() (err error) {
	if m.Accept.IsEmpty() {
		return fmt.Errorf("accept: %w", ipextract.ErrAcceptEmpty)
	}
	return nil
}

func (m Matching) String() string {
	return m.toLinesNode().String()
}

func (m Matching) toLinesNode() *gotree.Node {
	node := gotree.New("Matching")
	node.Appendf("Accept: %s", *m.Accept)
	node.Appendf("Interface mode: %s", *m.InterfaceMode)
	node.Appendf("Match: %s", *m.Mode)
	node.Appendf("Prefilter: %s", gosettings.BoolToYesNo(ptrTo(!*m.DisablePrefilter)))
	return node
}

// ExtractSettings returns the extraction settings for the IP version
// given, reporting skipped interface addresses to warner.
func (m Matching) ExtractSettings(ipVersion ipversion.IPVersion,
	warner ipextract.Warner) ipextract.Settings {
	return ipextract.Settings{
		Accept:           m.Accept,
		InterfaceMode:    m.InterfaceMode,
		IPVersion:        &ipVersion,
		Warner:           warner,
		DisablePrefilter: m.DisablePrefilter,
	}
}

func (m *Matching) read(r *reader.Reader) (err error) {
	if m.Accept == nil {
		values := r.CSV("IPGREP_ACCEPT")
		if len(values) > 0 {
			accept, err := ipextract.ParseAccept(values)
			if err != nil {
				return fmt.Errorf("environment variable IPGREP_ACCEPT: %w", err)
			}
			m.Accept = &accept
		}
	}

	if m.InterfaceMode == nil {
		value := r.Get("IPGREP_INTERFACE_MODE")
		if value != nil {
			interfaceMode, err := ipextract.ParseInterfaceMode(*value)
			if err != nil {
				return fmt.Errorf("environment variable IPGREP_INTERFACE_MODE: %w", err)
			}
			m.InterfaceMode = &interfaceMode
		}
	}

	if m.Mode == nil {
		value := r.Get("IPGREP_MATCH")
		if value != nil {
			mode, err := match.ParseMode(*value)
			if err != nil {
				return fmt.Errorf("environment variable IPGREP_MATCH: %w", err)
			}
			m.Mode = &mode
		}
	}

	return nil
}

func ptrTo[T any](v T) *T { return &v }
