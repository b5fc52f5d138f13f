// Package highsolver solves milp models with the HiGHS engine.
package highsolver

import (
	"fmt"
	"slices"

	"github.com/lanl/highs"
	"github.com/sirupsen/logrus"

	"multiflow_decomp/src/milp"
)

type Solver struct {
	Logger logrus.FieldLogger
}

func New() *Solver {
	return &Solver{Logger: logrus.StandardLogger()}
}

func defModel(m *milp.Model) *highs.Model {
	numCols := m.NumVars()
	lp := &highs.Model{
		ColCosts: slices.Clone(m.ColCosts),
		Offset:   m.Offset,
		ColLower: slices.Clone(m.ColLower),
		ColUpper: slices.Clone(m.ColUpper),
		RowLower: slices.Clone(m.RowLower),
		RowUpper: slices.Clone(m.RowUpper),
	}

	lp.VarTypes = make([]highs.VariableType, numCols)
	for j := range numCols {
		if m.IsInteger(milp.Var(j)) {
			lp.VarTypes[j] = highs.IntegerType
		}
	}

	lp.ConstMatrix = make([]highs.Nonzero, 0, len(m.ConstMatrix))
	for _, nz := range m.ConstMatrix {
		lp.ConstMatrix = append(lp.ConstMatrix, highs.Nonzero{Row: nz.Row, Col: nz.Col, Val: nz.Val})
	}
	return lp
}

// Solve passes m to HiGHS. Every HiGHS status other than optimal is reported
// as milp.StatusInfeasible when HiGHS says so and milp.StatusUnknown otherwise.
func (s *Solver) Solve(m *milp.Model) (*milp.Solution, error) {
	if m.NumVars() == 0 {
		return &milp.Solution{Status: milp.StatusOptimal, Objective: m.Offset}, nil
	}
	lp := defModel(m)
	solution, err := lp.Solve()
	if err != nil {
		return nil, fmt.Errorf("highs: %w", err)
	}

	s.Logger.WithFields(logrus.Fields{
		"cols":   m.NumVars(),
		"rows":   m.NumConstraints(),
		"status": solution.Status.String(),
	}).Debug("HiGHS run finished")

	switch solution.Status {
	case highs.Optimal:
	case highs.Infeasible:
		return &milp.Solution{Status: milp.StatusInfeasible}, nil
	default:
		return &milp.Solution{Status: milp.StatusUnknown}, nil
	}

	return &milp.Solution{
		Status:    milp.StatusOptimal,
		Values:    slices.Clone(solution.ColumnPrimal[:m.NumVars()]),
		Objective: solution.Objective,
	}, nil
}
