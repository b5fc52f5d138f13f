package bnb

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"multiflow_decomp/src/milp"
)

// stdRow is a row of the standard-form program: Σ vals·y + slack·s = rhs.
type stdRow struct {
	cols  []int
	vals  []float64
	slack float64
	rhs   float64
}

// solveRelaxation solves the LP relaxation of m restricted to the column
// bounds [lower, upper].
//
// The program is shifted to y = x − lower ≥ 0, finite upper bounds become
// rows y + s = upper − lower, and every inequality row gets its own slack,
// which yields the form min c·z s.t. Az = b, z ≥ 0 that lp.Simplex expects.
// Columns that appear in no row and have no upper bound are left at their
// lower bound.
func solveRelaxation(m *milp.Model, rows [][]milp.Nonzero, lower, upper []float64, tol float64) (float64, []float64, milp.Status, error) {
	n := m.NumVars()
	values := make([]float64, n)
	objective := m.Offset

	used := make([]bool, n)
	for _, row := range rows {
		for _, nz := range row {
			used[nz.Col] = true
		}
	}

	lpCol := make([]int, n)
	numCols := 0
	for j := range n {
		if math.IsInf(lower[j], -1) {
			return 0, nil, milp.StatusUnknown, fmt.Errorf("bnb: column %s has no finite lower bound", m.ColNames[j])
		}
		if lower[j] > upper[j]+eps {
			return 0, nil, milp.StatusInfeasible, nil
		}
		values[j] = lower[j]
		objective += m.ColCosts[j] * lower[j]
		if !used[j] && math.IsInf(upper[j], 1) {
			if m.ColCosts[j] < 0 {
				return 0, nil, milp.StatusUnbounded, nil
			}
			lpCol[j] = -1
			continue
		}
		lpCol[j] = numCols
		numCols++
	}

	std := make([]stdRow, 0, len(rows)+numCols)
	numEq := 0
	for i, row := range rows {
		shift := 0.0
		r := stdRow{cols: make([]int, 0, len(row)), vals: make([]float64, 0, len(row))}
		for _, nz := range row {
			shift += nz.Val * lower[nz.Col]
			r.cols = append(r.cols, lpCol[nz.Col])
			r.vals = append(r.vals, nz.Val)
		}
		lo, hi := m.RowLower[i]-shift, m.RowUpper[i]-shift
		if len(row) == 0 {
			if lo > eps || hi < -eps {
				return 0, nil, milp.StatusInfeasible, nil
			}
			continue
		}
		if almostEqual(m.RowLower[i], m.RowUpper[i], eps) {
			r.rhs = lo
			std = append(std, r)
			numEq++
			continue
		}
		if !math.IsInf(hi, 1) {
			le := r
			le.slack, le.rhs = 1, hi
			std = append(std, le)
		}
		if !math.IsInf(lo, -1) {
			ge := r
			ge.slack, ge.rhs = -1, lo
			std = append(std, ge)
		}
	}
	for j := range n {
		if lpCol[j] < 0 || math.IsInf(upper[j], 1) {
			continue
		}
		std = append(std, stdRow{
			cols:  []int{lpCol[j]},
			vals:  []float64{1},
			slack: 1,
			rhs:   math.Max(upper[j]-lower[j], 0),
		})
	}

	if len(std) == 0 {
		return objective, values, milp.StatusOptimal, nil
	}
	if numEq > numCols {
		return 0, nil, milp.StatusUnknown, fmt.Errorf("bnb: %d equality rows over %d columns", numEq, numCols)
	}

	width := numCols
	for _, r := range std {
		if r.slack != 0 {
			width++
		}
	}
	A := mat.NewDense(len(std), width, nil)
	b := make([]float64, len(std))
	slackCol := numCols
	for i, r := range std {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for h, c := range r.cols {
			A.Set(i, c, A.At(i, c)+sign*r.vals[h])
		}
		if r.slack != 0 {
			A.Set(i, slackCol, sign*r.slack)
			slackCol++
		}
		b[i] = sign * r.rhs
	}

	c := make([]float64, width)
	for j := range n {
		if lpCol[j] >= 0 {
			c[lpCol[j]] = m.ColCosts[j]
		}
	}

	optF, optX, err := lp.Simplex(c, A, b, tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return 0, nil, milp.StatusInfeasible, nil
	case errors.Is(err, lp.ErrUnbounded):
		return 0, nil, milp.StatusUnbounded, nil
	case err != nil:
		return 0, nil, milp.StatusUnknown, fmt.Errorf("bnb: simplex: %w", err)
	}

	for j := range n {
		if lpCol[j] >= 0 {
			values[j] += optX[lpCol[j]]
		}
	}
	return objective + optF, values, milp.StatusOptimal, nil
}
