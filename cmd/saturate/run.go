package main

import (
	"os"
	"time"

	"github.com/petrellabs/saturate/prover"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runSaturate is cmd/saturate's only business logic: load options, open
// the input, run the prover, print a verdict, and exit with spec §6's
// code. Grounded on the teacher's cmd/saturday/saturday.go main, which
// does the same four steps (parse input, solve, print, decide exit
// status) without the cobra/viper layering this module adds.
func runSaturate(cmd *cobra.Command, args []string) error {
	opts, err := prover.LoadOptions(configPath)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(&opts); err != nil {
		return err
	}

	log := logrus.NewEntry(logrus.StandardLogger())

	p, err := prover.New(opts, log)
	if err != nil {
		return errors.Wrap(err, "saturate: constructing prover")
	}

	input := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "saturate: opening %q", args[0])
		}
		defer f.Close()
		input = f
	}

	if err := p.LoadInput(input); err != nil {
		return errors.Wrap(err, "saturate: reading input")
	}

	result, err := p.Run()
	if err != nil {
		return errors.Wrap(err, "saturate: running saturation")
	}

	cmd.Println(result.Summary(p.Arena()))
	if result.Refutation != nil {
		if inf := result.Refutation.Inference(); inf != nil {
			cmd.Printf("Refutation clause id: %d, derived by %q from %d premise(s)\n",
				result.Refutation.ID(), inf.Rule, len(inf.Premises))
		} else {
			cmd.Printf("Refutation clause id: %d (given directly as input)\n", result.Refutation.ID())
		}
	}
	cmd.Printf("Iterations: %d\n", result.Iterations)

	os.Exit(result.ExitCode())
	return nil
}

func applyFlagOverrides(opts *prover.Options) error {
	if timeLimitFlag != "" {
		d, err := time.ParseDuration(timeLimitFlag)
		if err != nil {
			return errors.Wrapf(err, "saturate: invalid --time-limit %q", timeLimitFlag)
		}
		opts.TimeLimit = d
	}
	if selectionFlag != "" {
		opts.Selection = selectionFlag
	}
	if satBackendFlag != "" {
		opts.SATBackend = satBackendFlag
	}
	if logLevelFlag != "" {
		opts.LogLevel = logLevelFlag
	}
	if globalSubsumptionFlag {
		opts.GlobalSubsumptionEnabled = true
	}
	if lrsDisabledFlag {
		opts.LRSEnabled = false
	}
	return nil
}
