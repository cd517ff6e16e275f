// Package config reads the settings given through the environment,
// after the command line flags set the ones they carry.
package config

import (
	"fmt"

	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Config struct {
	Matching Matching
	Output   Output
	Files    Files
	Logger   Logger
}

func (c *Config) SetDefaults() {
	c.Matching.setDefaults()
	c.Output.setDefaults()
	c.Files.setDefaults()
	c.Logger.setDefaults()
}

func (c Config) Validate() (err error) {
	type validator interface {
		Validate() (err error)
	}
	toValidate := map[string]validator{
		"matching": &c.Matching,
		"output":   &c.Output,
		"files":    &c.Files,
		"logger":   &c.Logger,
	}

	for name, v := range toValidate {
		err = v.Validate()
		if err != nil {
			return fmt.Errorf("%s settings: %w", name, err)
		}
	}

	return nil
}

func (c Config) String() string {
	return c.toLinesNode().String()
}

func (c Config) toLinesNode() *gotree.Node {
	node := gotree.New("Settings summary:")
	node.AppendNode(c.Matching.toLinesNode())
	node.AppendNode(c.Output.toLinesNode())
	node.AppendNode(c.Files.toLinesNode())
	node.AppendNode(c.Logger.toLinesNode())
	return node
}

// Read sets the fields still unset from the reader sources.
// Fields already set, from command line flags, are left as they are.
func (c *Config) Read(reader *reader.Reader) (err error) {
	err = c.Matching.read(reader)
	if err != nil {
		return fmt.Errorf("reading matching settings: %w", err)
	}

	err = c.Output.read(reader)
	if err != nil {
		return fmt.Errorf("reading output settings: %w", err)
	}

	err = c.Files.read(reader)
	if err != nil {
		return fmt.Errorf("reading files settings: %w", err)
	}

	err = c.Logger.read(reader)
	if err != nil {
		return fmt.Errorf("reading logger settings: %w", err)
	}

	return nil
}
