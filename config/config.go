// Package config collects the flag-driven knobs of cmd/pdsynth's bisim
// subcommand: console verbosity (§6.6), an optional pre-partition file
// (§4.3), and which bisimulation variant and computation method to run.
// The synth subcommand registers its own verbosity flag instead.
package config

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/FGDES/pdsynth/bisim"
)

// Variant selects which bisimulation relation to compute (§4.2-§4.5).
type Variant string

const (
	Strong  Variant = "strong"
	Delayed Variant = "delayed"
	Weak    Variant = "weak"
)

// Method selects how the chosen Variant is computed: the change-tracking
// partition refinement of §4.2-§4.4 directly, or via the saturation
// preprocessing pass of §4.5.
type Method string

const (
	Direct     Method = "direct"
	Saturation Method = "saturation"
)

// Config holds the resolved values of the shared flag set.
type Config struct {
	Verbosity        int
	PrePartitionFile string
	Variant          Variant
	Method           Method

	postParse resolver
}

// RegisterFlags adds the shared flags to fs and returns the Config that
// will hold their parsed values once fs.Parse has run.
func RegisterFlags(fs *pflag.FlagSet) *Config {
	c := &Config{}
	fs.IntVarP(&c.Verbosity, "verbosity", "v", 0, "console verbosity level (0..n)")
	fs.StringVarP(&c.PrePartitionFile, "pre-partition", "p", "", "optional pre-partition token file (§4.3)")
	variant := fs.StringP("variant", "b", string(Strong), "bisimulation variant: strong, delayed, weak")
	method := fs.StringP("method", "m", string(Direct), "computation method: direct, saturation")
	c.postParse = func() error {
		switch Variant(*variant) {
		case Strong, Delayed, Weak:
			c.Variant = Variant(*variant)
		default:
			return fmt.Errorf("unknown bisimulation variant %q (want strong, delayed or weak)", *variant)
		}
		switch Method(*method) {
		case Direct, Saturation:
			c.Method = Method(*method)
		default:
			return fmt.Errorf("unknown method %q (want direct or saturation)", *method)
		}
		return nil
	}
	return c
}

// postParse resolves the string-valued flags into their validated enum
// fields; set by RegisterFlags, called by Resolve after fs.Parse.
type resolver = func() error

// Resolve must be called once fs.Parse(args) has run, to validate and
// store the enum-valued flags.
func (c *Config) Resolve() error {
	if c.postParse == nil {
		return nil
	}
	return c.postParse()
}

// BisimVariant maps the configured Variant to the bisim package's own
// Variant type.
func (c *Config) BisimVariant() bisim.Variant {
	switch c.Variant {
	case Delayed:
		return bisim.Delayed
	case Weak:
		return bisim.Weak
	default:
		return bisim.Strong
	}
}
