// Command saturate is a first-order theorem prover over the given-clause
// saturation calculus (spec §1): it reads a clausal problem in the
// internal/intake format and reports whether the input set of clauses
// (typically axioms plus a negated conjecture) is refutable.
//
// Generalized from the teacher's cmd/saturday/saturday.go, a single-file
// argv-parsing main reading DIMACS and printing SAT/UNSAT, into a cobra
// command tree (grounded on AleutianLocal's cmd/aleutian/commands.go
// construction style) fronting the reusable prover.Prover API.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
