package milp

import "math"

type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
	// StatusLimit means the engine stopped on a node, time or iteration
	// limit before proving optimality.
	StatusLimit
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusLimit:
		return "limit reached"
	}
	return "unknown"
}

func (s Status) Optimal() bool { return s == StatusOptimal }

// Solution is what a Solver reports. Values and Objective are meaningful
// only when Status is optimal.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Value returns the value assigned to v, or NaN when none was reported.
func (s *Solution) Value(v Var) float64 {
	if int(v) < 0 || int(v) >= len(s.Values) {
		return math.NaN()
	}
	return s.Values[v]
}

// Solver optimises a Model. A model that is infeasible, unbounded or not
// solved to optimality is reported through Solution.Status; the error is
// reserved for failures of the engine itself.
type Solver interface {
	Solve(m *Model) (*Solution, error)
}
