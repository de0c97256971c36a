package satbackend

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseDIMACS parses text in the DIMACS CNF format into a clause list
// suitable for Backend.AddClause (one call per returned clause). Grounded
// on the teacher's dimacs.go, unchanged in shape: this package reuses it to
// let a ground theory be dumped to and reloaded from a debug file, not to
// read the prover's own input (that is internal/intake's job).
//
// A few non-standard variations are accepted for convenience: comments
// ('c'-prefixed lines) may appear anywhere, and the problem line may be
// missing.
func ParseDIMACS(r io.Reader) ([][]int, error) {
	var problem struct {
		vars    int
		clauses int
	}
	var clauses [][]int
	var clause []int
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if len(line) == 0 || line[0] == 'c' {
			continue
		}
		if line == "%" {
			break
		}
		if line[0] == 'p' {
			if len(clauses) > 0 {
				return nil, errors.New("problem line appears after clauses")
			}
			if problem.vars > 0 {
				return nil, errors.New("multiple problem lines")
			}
			fields := strings.Fields(line)
			if len(fields) != 4 {
				return nil, errors.Errorf("malformed problem line %q", line)
			}
			if fields[0] != "p" {
				return nil, errors.Errorf("problem line starts with unexpected signifier %q", fields[0])
			}
			if fields[1] != "cnf" {
				return nil, errors.Errorf("only cnf supported; got %q", fields[1])
			}
			var err error
			problem.vars, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Wrap(err, "malformed #vars in problem line")
			}
			problem.clauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return nil, errors.Wrap(err, "malformed #clauses in problem line")
			}
			if problem.vars < 0 {
				return nil, errors.Errorf("invalid #vars %d", problem.vars)
			}
			if problem.clauses < 0 {
				return nil, errors.Errorf("invalid #clauses %d", problem.clauses)
			}
			continue
		}
		for _, field := range strings.Fields(line) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrap(err, "invalid variable")
			}
			if n == 0 {
				clauses = append(clauses, clause)
				clause = nil
			} else {
				clause = append(clause, n)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(clause) > 0 {
		clauses = append(clauses, clause)
	}

	if problem.vars > 0 {
		vars := make(map[int]struct{})
		for _, clause := range clauses {
			for _, v := range clause {
				if v < 0 {
					v = -v
				}
				if v > problem.vars {
					return nil, errors.Errorf("formula contains var %d, but problem line asserts %d vars (only vars in [1, %d] expected)",
						v, problem.vars, problem.vars)
				}
				vars[v] = struct{}{}
			}
		}
		if len(vars) > problem.vars {
			return nil, errors.Errorf("problem line specifies %d vars, but there are %d", problem.vars, len(vars))
		}
		if len(clauses) != problem.clauses {
			return nil, errors.Errorf("problem line specifies %d clauses, but there are %d", problem.clauses, len(clauses))
		}
	}
	return clauses, nil
}

// WriteDIMACS serializes clauses in DIMACS CNF format, for dumping a
// GlobalSubsumption ground theory snapshot to a debug file.
func WriteDIMACS(w io.Writer, clauses [][]int) error {
	maxVar := 0
	for _, cls := range clauses {
		for _, v := range cls {
			if v < 0 {
				v = -v
			}
			if v > maxVar {
				maxVar = v
			}
		}
	}
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", maxVar, len(clauses)); err != nil {
		return err
	}
	for _, cls := range clauses {
		fields := make([]string, 0, len(cls)+1)
		for _, v := range cls {
			fields = append(fields, strconv.Itoa(v))
		}
		fields = append(fields, "0")
		if _, err := fmt.Fprintln(w, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}
