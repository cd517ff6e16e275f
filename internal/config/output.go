package config

import (
	"fmt"

	"github.com/ossobv/ipgrep/internal/output"
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Output struct {
	Color        *output.ColorMode
	LineBuffered *bool
}

func (o *Output) setDefaults() {
	o.Color = gosettings.DefaultPointer(o.Color, output.ColorAuto)
	o.LineBuffered = gosettings.DefaultPointer(o.LineBuffered, false)
}

func (o Output) Validate() (err error) {
	_, err = output.ParseColorMode(string(*o.Color))
	if err != nil {
		return fmt.Errorf("color: %w", err)
	}
	return nil
}

func (o Output) String() string {
	return o.toLinesNode().String()
}

func (o Output) toLinesNode() *gotree.Node {
	node := gotree.New("Output")
	node.Appendf("Color: %s", *o.Color)
	node.Appendf("Line buffered: %s", gosettings.BoolToYesNo(o.LineBuffered))
	return node
}

func (o *Output) read(r *reader.Reader) (err error) {
	if o.Color == nil {
		value := r.Get("IPGREP_COLOR")
		if value != nil {
			color, err := output.ParseColorMode(*value)
			if err != nil {
				return fmt.Errorf("environment variable IPGREP_COLOR: %w", err)
			}
			o.Color = &color
		}
	}

	if o.LineBuffered == nil {
		o.LineBuffered, err = r.BoolPtr("IPGREP_LINE_BUFFERED")
		if err != nil {
			return err
		}
	}

	return nil
}
