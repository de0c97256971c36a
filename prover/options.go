package prover

import (
	"time"

	"github.com/petrellabs/saturate/kernel"
	"github.com/petrellabs/saturate/saturation"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Options configures one Prover run (spec §5's process-wide configuration
// surface: time limit, LRS, literal selection, SAT backend choice).
// Grounded on AleutianLocal's cli_commands.go loadConfigFromStackDir: a
// plain struct with yaml tags, populated from an optional config file via
// viper and then overridden by CLI flags in cmd/saturate.
type Options struct {
	// TimeLimit bounds the saturation loop's wall-clock budget (spec §4.7,
	// §6's exit code 2). Zero means unbounded.
	TimeLimit time.Duration `yaml:"time_limit" mapstructure:"time_limit"`

	// LRSEnabled turns on the limited-resource dynamic age/weight
	// tightening (spec §4.9).
	LRSEnabled bool `yaml:"lrs_enabled" mapstructure:"lrs_enabled"`

	// Selection names the literal-selection strategy: "first" or "maximal"
	// (spec §4.4).
	Selection string `yaml:"selection" mapstructure:"selection"`

	// AgeWeight and WeightWeight combine into the Passive container's
	// ActivationPriority (spec §4.6).
	AgeWeight    uint32 `yaml:"age_weight" mapstructure:"age_weight"`
	WeightWeight uint32 `yaml:"weight_weight" mapstructure:"weight_weight"`

	// SATBackend names the ground-theory SAT engine Global Subsumption
	// consults: "dpll" (the adapted teacher solver) or "gini" (the
	// incremental CDCL solver).
	SATBackend string `yaml:"sat_backend" mapstructure:"sat_backend"`

	// GlobalSubsumptionEnabled toggles spec §4.8's SAT-backed simplifier,
	// off by default since it is the most expensive forward simplifier.
	GlobalSubsumptionEnabled bool `yaml:"global_subsumption_enabled" mapstructure:"global_subsumption_enabled"`

	// LogLevel is a logrus level name ("debug", "info", "warn", ...).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// DefaultOptions returns the options a bare `saturate run` invocation uses
// absent a config file or flag overrides.
func DefaultOptions() Options {
	return Options{
		TimeLimit:                0,
		LRSEnabled:               true,
		Selection:                "maximal",
		AgeWeight:                saturation.DefaultActivationPriority.AgeWeight,
		WeightWeight:             saturation.DefaultActivationPriority.WeightWeight,
		SATBackend:               "dpll",
		GlobalSubsumptionEnabled: false,
		LogLevel:                 "info",
	}
}

// LoadOptions starts from DefaultOptions and layers a YAML config file over
// it when path is non-empty. Grounded on AleutianLocal's
// loadConfigFromStackDir: a fresh viper.New() per load (never the global
// viper singleton, so concurrent Prover configurations in the same process
// cannot clobber one another), SetConfigFile/SetConfigType/ReadInConfig/
// Unmarshal.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return opts, errors.Wrapf(err, "prover: reading config %q", path)
	}
	if err := v.Unmarshal(&opts); err != nil {
		return opts, errors.Wrap(err, "prover: decoding config")
	}
	return opts, nil
}

// Selector builds the kernel.LiteralSelector Options.Selection names.
func (o Options) Selector() (kernel.LiteralSelector, error) {
	switch o.Selection {
	case "", "maximal":
		return kernel.MaximalLiteralSelector{}, nil
	case "first":
		return kernel.FirstLiteralSelector{}, nil
	default:
		return nil, errors.Errorf("prover: unknown selection strategy %q", o.Selection)
	}
}

// ActivationPriority builds the saturation.ActivationPriority Options'
// weights describe.
func (o Options) ActivationPriority() saturation.ActivationPriority {
	return saturation.ActivationPriority{AgeWeight: o.AgeWeight, WeightWeight: o.WeightWeight}
}
