package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags, the same pattern most
// single-binary Go CLIs use; "dev" is the sane default for a local build.
var version = "dev"

var (
	configPath               string
	timeLimitFlag            string
	selectionFlag            string
	satBackendFlag           string
	logLevelFlag             string
	globalSubsumptionFlag    bool
	lrsDisabledFlag          bool

	rootCmd = &cobra.Command{
		Use:   "saturate",
		Short: "A first-order theorem prover over the given-clause saturation calculus",
		Long: `saturate reads a clausal first-order problem (axioms, optionally a
negated conjecture) in the intake format documented alongside this module,
runs the given-clause saturation loop, and reports whether the clause set
is refutable.`,
	}

	runCmd = &cobra.Command{
		Use:   "run [input-file]",
		Short: "Run saturation over a clausal input file (or stdin if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSaturate,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the saturate version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML options file")

	runCmd.Flags().StringVar(&timeLimitFlag, "time-limit", "", "wall-clock time limit, e.g. \"30s\" (0 or omitted means unbounded)")
	runCmd.Flags().StringVar(&selectionFlag, "selection", "", "literal selection strategy: \"maximal\" or \"first\"")
	runCmd.Flags().StringVar(&satBackendFlag, "sat-backend", "", "Global Subsumption's SAT backend: \"dpll\" or \"gini\"")
	runCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "logrus level: debug, info, warn, error")
	runCmd.Flags().BoolVar(&globalSubsumptionFlag, "global-subsumption", false, "enable the SAT-backed Global Subsumption simplifier")
	runCmd.Flags().BoolVar(&lrsDisabledFlag, "no-lrs", false, "disable the limited-resource-strategy dynamic age/weight tightening")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}
