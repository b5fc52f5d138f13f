// Package bnb is a pure-Go MILP solver: LP-based branch and bound whose
// relaxations are solved with gonum's simplex implementation.
//
// It is meant for small models (tests, examples, instances with a handful
// of edges and paths); larger instances belong to the HiGHS or lp_solve
// backends.
package bnb

import (
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"multiflow_decomp/src/milp"
)

// NodeOrder is the rule used to pick the next open node.
type NodeOrder int

const (
	DepthFirst NodeOrder = iota
	BreadthFirst
	BestBound
)

type Solver struct {
	Order NodeOrder
	// MaxNodes caps the number of relaxations solved; 0 means no cap.
	MaxNodes int
	// IntTol is how far from an integer a value may be and still count as
	// integral.
	IntTol float64
	// GapTol is the absolute objective gap under which nodes are pruned.
	GapTol float64
	// LPTol is passed to the simplex method.
	LPTol  float64
	Logger logrus.FieldLogger
}

func New() *Solver {
	return &Solver{
		Order:    DepthFirst,
		MaxNodes: 200000,
		IntTol:   1e-6,
		GapTol:   1e-6,
		LPTol:    1e-10,
		Logger:   logrus.StandardLogger(),
	}
}

type node struct {
	lower []float64
	upper []float64
	// bound is the relaxation value of the parent, a lower bound for every
	// solution below this node.
	bound float64
	depth int
}

func cloneNode(n *node) *node {
	return &node{
		lower: slices.Clone(n.lower),
		upper: slices.Clone(n.upper),
		bound: n.bound,
		depth: n.depth + 1,
	}
}

func (s *Solver) newDeque() Deque[*node] {
	switch s.Order {
	case BreadthFirst:
		return NewQueue[*node]()
	case BestBound:
		return newBoundQueue()
	}
	return NewStack[*node]()
}

// branchVariable returns the integer column whose value is farthest from
// an integer, if any is farther than IntTol.
func (s *Solver) branchVariable(m *milp.Model, x []float64) (int, bool) {
	best, bestDist := -1, s.IntTol
	for j, v := range x {
		if !m.IsInteger(milp.Var(j)) {
			continue
		}
		if dist := fractionality(v); dist > bestDist {
			best, bestDist = j, dist
		}
	}
	return best, best >= 0
}

func (s *Solver) rootNode(m *milp.Model) *node {
	root := &node{
		lower: slices.Clone(m.ColLower),
		upper: slices.Clone(m.ColUpper),
		bound: math.Inf(-1),
	}
	for j := range root.lower {
		if m.IsInteger(milp.Var(j)) {
			root.lower[j], root.upper[j] = integerBounds(root.lower[j], root.upper[j], s.IntTol)
		}
	}
	return root
}

func (s *Solver) Solve(m *milp.Model) (*milp.Solution, error) {
	rows := m.Rows()
	best := &milp.Solution{Status: milp.StatusInfeasible, Objective: math.Inf(1)}

	open := s.newDeque()
	open.Push(s.rootNode(m))
	explored := 0

	for open.Size() > 0 {
		if s.MaxNodes > 0 && explored == s.MaxNodes {
			best.Status = milp.StatusLimit
			break
		}
		n := open.Pop()
		if n.bound >= best.Objective-s.GapTol {
			continue
		}
		explored++

		obj, x, status, err := solveRelaxation(m, rows, n.lower, n.upper, s.LPTol)
		if err != nil {
			return nil, err
		}
		if status == milp.StatusUnbounded {
			return &milp.Solution{Status: milp.StatusUnbounded}, nil
		}
		if status != milp.StatusOptimal || obj >= best.Objective-s.GapTol {
			continue
		}

		j, fractional := s.branchVariable(m, x)
		if !fractional {
			for c, v := range x {
				if m.IsInteger(milp.Var(c)) {
					x[c] = nearestInt(v)
				}
			}
			best = &milp.Solution{Status: milp.StatusOptimal, Values: x, Objective: obj}
			continue
		}

		down := cloneNode(n)
		down.upper[j] = math.Floor(x[j])
		down.bound = obj
		up := cloneNode(n)
		up.lower[j] = math.Ceil(x[j])
		up.bound = obj
		open.Push(down)
		open.Push(up)
	}

	s.Logger.WithFields(logrus.Fields{
		"cols":   m.NumVars(),
		"rows":   m.NumConstraints(),
		"nodes":  explored,
		"status": best.Status.String(),
	}).Debug("branch and bound finished")

	if best.Status != milp.StatusOptimal {
		best.Objective = math.NaN()
	}
	return best, nil
}
