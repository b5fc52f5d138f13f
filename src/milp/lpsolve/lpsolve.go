// Package lpsolve solves milp models with lp_solve.
package lpsolve

import (
	"fmt"
	"math"

	"github.com/draffensperger/golp"
	"github.com/sirupsen/logrus"

	"multiflow_decomp/src/milp"
)

// lp_solve treats magnitudes at or above this value as infinite.
const lpInfinity = 1e30

type Solver struct {
	Logger logrus.FieldLogger
}

func New() *Solver {
	return &Solver{Logger: logrus.StandardLogger()}
}

func finite(v float64) float64 {
	if math.IsInf(v, 1) {
		return lpInfinity
	}
	if math.IsInf(v, -1) {
		return -lpInfinity
	}
	return v
}

func defModel(m *milp.Model) (*golp.LP, error) {
	numCols := m.NumVars()
	lp := golp.NewLP(0, numCols)
	lp.SetVerboseLevel(golp.NEUTRAL)

	for j := range numCols {
		lp.SetColName(j, m.ColNames[j])
		lp.SetBounds(j, finite(m.ColLower[j]), finite(m.ColUpper[j]))
		if m.IsInteger(milp.Var(j)) {
			lp.SetInt(j, true)
		}
	}

	for i, row := range m.Rows() {
		entries := make([]golp.Entry, 0, len(row))
		for _, nz := range row {
			entries = append(entries, golp.Entry{Col: nz.Col, Val: nz.Val})
		}
		lower, upper := m.RowLower[i], m.RowUpper[i]
		var err error
		switch {
		case lower == upper:
			err = lp.AddConstraintSparse(entries, golp.EQ, lower)
		default:
			if !math.IsInf(lower, -1) {
				err = lp.AddConstraintSparse(entries, golp.GE, lower)
			}
			if err == nil && !math.IsInf(upper, 1) {
				err = lp.AddConstraintSparse(entries, golp.LE, upper)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("lpsolve: row %s: %w", m.RowNames[i], err)
		}
	}

	lp.SetObjFn(m.ColCosts)
	return lp, nil
}

func (s *Solver) Solve(m *milp.Model) (*milp.Solution, error) {
	if m.NumVars() == 0 {
		return &milp.Solution{Status: milp.StatusOptimal, Objective: m.Offset}, nil
	}
	lp, err := defModel(m)
	if err != nil {
		return nil, err
	}

	status := lp.Solve()
	s.Logger.WithFields(logrus.Fields{
		"cols":   m.NumVars(),
		"rows":   m.NumConstraints(),
		"status": int(status),
	}).Debug("lp_solve run finished")

	switch status {
	case golp.OPTIMAL:
	case golp.INFEASIBLE:
		return &milp.Solution{Status: milp.StatusInfeasible}, nil
	case golp.UNBOUNDED:
		return &milp.Solution{Status: milp.StatusUnbounded}, nil
	default:
		return &milp.Solution{Status: milp.StatusUnknown}, nil
	}

	return &milp.Solution{
		Status:    milp.StatusOptimal,
		Values:    lp.Variables(),
		Objective: lp.Objective() + m.Offset,
	}, nil
}
