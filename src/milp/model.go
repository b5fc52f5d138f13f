// Package milp describes mixed-integer linear programs independently of the
// engine that solves them.
//
// A Model is built column by column and row by row, the same layout HiGHS
// uses: column bounds, column types, objective costs, and a sparse matrix of
// rows with lower and upper activity bounds. Solvers translate it into their
// own representation.
package milp

import (
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

type VarKind int

const (
	Continuous VarKind = iota
	Integer
	Binary
)

func (k VarKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	}
	return "continuous"
}

// Var is the column index of a variable in its Model.
type Var int

type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

// Nonzero is one entry of the constraint matrix.
type Nonzero struct {
	Row int
	Col int
	Val float64
}

type Model struct {
	ColNames []string
	ColLower []float64
	ColUpper []float64
	ColCosts []float64
	VarTypes []VarKind
	Offset   float64

	RowNames    []string
	RowLower    []float64
	RowUpper    []float64
	ConstMatrix []Nonzero
}

func clamp[T constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// AddVar declares a variable with bounds [lb, ub]. Binary variables are
// integer columns with bounds clamped to [0, 1].
func (m *Model) AddVar(lb, ub float64, kind VarKind, name string) Var {
	if kind == Binary {
		lb, ub = clamp(lb, 0, 1), clamp(ub, 0, 1)
	}
	v := Var(len(m.ColLower))
	m.ColNames = append(m.ColNames, name)
	m.ColLower = append(m.ColLower, lb)
	m.ColUpper = append(m.ColUpper, ub)
	m.ColCosts = append(m.ColCosts, 0)
	m.VarTypes = append(m.VarTypes, kind)
	return v
}

func (m *Model) NumVars() int { return len(m.ColLower) }

func (m *Model) NumConstraints() int { return len(m.RowLower) }

// IsInteger reports whether column v must take an integral value.
func (m *Model) IsInteger(v Var) bool {
	return m.VarTypes[v] != Continuous
}

// AddConstr adds the row lhs (sense) rhs. Variables are gathered on the left
// and constants on the right; repeated variables are merged.
func (m *Model) AddConstr(lhs *Expr, sense Sense, rhs *Expr, name string) int {
	diff := lhs.Clone().AddExpr(rhs, -1)
	coeffs, constant := diff.collect()

	lower, upper := math.Inf(-1), math.Inf(1)
	switch sense {
	case LessEq:
		upper = -constant
	case GreaterEq:
		lower = -constant
	case Equal:
		lower, upper = -constant, -constant
	}
	return m.addRow(coeffs, lower, upper, name)
}

// AddRange adds the row lower <= expr <= upper.
func (m *Model) AddRange(lower float64, expr *Expr, upper float64, name string) int {
	coeffs, constant := expr.collect()
	return m.addRow(coeffs, lower-constant, upper-constant, name)
}

func (m *Model) addRow(coeffs map[Var]float64, lower, upper float64, name string) int {
	row := len(m.RowLower)
	m.RowNames = append(m.RowNames, name)
	m.RowLower = append(m.RowLower, lower)
	m.RowUpper = append(m.RowUpper, upper)

	cols := make([]Var, 0, len(coeffs))
	for v, c := range coeffs {
		if c != 0 {
			cols = append(cols, v)
		}
	}
	slices.Sort(cols)
	for _, v := range cols {
		m.ConstMatrix = append(m.ConstMatrix, Nonzero{Row: row, Col: int(v), Val: coeffs[v]})
	}
	return row
}

// SetObjective sets expr as the function to minimise. Any previous objective
// is discarded.
func (m *Model) SetObjective(expr *Expr) {
	coeffs, constant := expr.collect()
	for j := range m.ColCosts {
		m.ColCosts[j] = coeffs[Var(j)]
	}
	m.Offset = constant
}

// Rows returns the matrix entries grouped by row.
func (m *Model) Rows() [][]Nonzero {
	rows := make([][]Nonzero, len(m.RowLower))
	for _, nz := range m.ConstMatrix {
		rows[nz.Row] = append(rows[nz.Row], nz)
	}
	return rows
}
