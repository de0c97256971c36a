package prover

import (
	"github.com/petrellabs/saturate/kernel"
	"github.com/petrellabs/saturate/saturation"
)

// Result is the terminal outcome of one Prover.Run, carrying enough to
// report spec §6's exit code and a human-readable summary.
type Result struct {
	Outcome     saturation.Outcome
	Refutation  *kernel.Clause
	Iterations  uint64
	GeneratedBy *kernel.Signature // the signature used, for formatting the refutation
}

// ExitCode maps Outcome to spec §6's process exit code: 0 = refutation
// found, 1 = saturation reached without refutation, 2 = time limit hit
// before either. OutcomeStopped (external cooperative cancellation) is
// also reported as 2, since from the caller's perspective it is the same
// "no verdict reached" case a time limit produces.
func (r *Result) ExitCode() int {
	switch r.Outcome {
	case saturation.OutcomeRefutation:
		return 0
	case saturation.OutcomeSaturation:
		return 1
	case saturation.OutcomeTimeLimit, saturation.OutcomeStopped:
		return 2
	default:
		return 3
	}
}

// Summary renders a one-line human-readable verdict, the style the
// teacher's cmd/saturday/saturday.go prints SAT/UNSAT in.
func (r *Result) Summary(arena *kernel.Arena) string {
	switch r.Outcome {
	case saturation.OutcomeRefutation:
		return "Refutation found. Theorem is a consequence of the axioms."
	case saturation.OutcomeSaturation:
		return "Saturation reached. No refutation exists; the axioms (plus negated conjecture) are satisfiable."
	case saturation.OutcomeTimeLimit:
		return "Time limit reached before a verdict was found."
	case saturation.OutcomeStopped:
		return "Run stopped before a verdict was found."
	default:
		return "Unknown outcome."
	}
}
