package bnb_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"multiflow_decomp/src/milp"
	"multiflow_decomp/src/milp/bnb"
)

type SolverSuite struct {
	suite.Suite
	order bnb.NodeOrder
}

func (s *SolverSuite) solver() *bnb.Solver {
	sv := bnb.New()
	sv.Order = s.order
	sv.Logger = logrus.New()
	return sv
}

// TestKnapsack: max 5a + 4b + 3c with 2a + 3b + c ≤ 5 picks a and b.
func (s *SolverSuite) TestKnapsack() {
	var m milp.Model
	a := m.AddVar(0, 1, milp.Binary, "a")
	b := m.AddVar(0, 1, milp.Binary, "b")
	c := m.AddVar(0, 1, milp.Binary, "c")
	m.AddConstr(milp.NewExpr().Term(2, a).Term(3, b).Term(1, c), milp.LessEq, milp.Const(5), "cap")
	m.SetObjective(milp.NewExpr().Term(-5, a).Term(-4, b).Term(-3, c))

	sol, err := s.solver().Solve(&m)
	require.NoError(s.T(), err)
	require.Equal(s.T(), milp.StatusOptimal, sol.Status)
	require.InDelta(s.T(), -9, sol.Objective, 1e-6)
	require.Equal(s.T(), []float64{1, 1, 0}, sol.Values)
}

// TestIntegerCover: min x + y with x + 2y ≥ 4, 3x + y ≥ 6 over the integers.
func (s *SolverSuite) TestIntegerCover() {
	var m milp.Model
	x := m.AddVar(0, 10, milp.Integer, "x")
	y := m.AddVar(0, 10, milp.Integer, "y")
	m.AddConstr(milp.Sum(x).Term(2, y), milp.GreaterEq, milp.Const(4), "r1")
	m.AddConstr(milp.NewExpr().Term(3, x).Term(1, y), milp.GreaterEq, milp.Const(6), "r2")
	m.SetObjective(milp.Sum(x, y))

	sol, err := s.solver().Solve(&m)
	require.NoError(s.T(), err)
	require.Equal(s.T(), milp.StatusOptimal, sol.Status)
	require.InDelta(s.T(), 3, sol.Objective, 1e-6)
}

// TestEquality: exactly two of three binaries, min x − y + 2z.
func (s *SolverSuite) TestEquality() {
	var m milp.Model
	x := m.AddVar(0, 1, milp.Binary, "x")
	y := m.AddVar(0, 1, milp.Binary, "y")
	z := m.AddVar(0, 1, milp.Binary, "z")
	m.AddConstr(milp.Sum(x, y, z), milp.Equal, milp.Const(2), "two")
	m.SetObjective(milp.Sum(x).Term(-1, y).Term(2, z))

	sol, err := s.solver().Solve(&m)
	require.NoError(s.T(), err)
	require.Equal(s.T(), milp.StatusOptimal, sol.Status)
	require.InDelta(s.T(), 0, sol.Objective, 1e-6)
	require.Equal(s.T(), []float64{1, 1, 0}, sol.Values)
}

func (s *SolverSuite) TestInfeasible() {
	var m milp.Model
	x := m.AddVar(0, 1, milp.Binary, "x")
	y := m.AddVar(0, 1, milp.Binary, "y")
	m.AddConstr(milp.Sum(x, y), milp.GreaterEq, milp.Const(3), "too_much")

	sol, err := s.solver().Solve(&m)
	require.NoError(s.T(), err)
	require.Equal(s.T(), milp.StatusInfeasible, sol.Status)
}

// TestFeasibilityOnly: a model without objective still reports a point
// satisfying its rows.
func (s *SolverSuite) TestFeasibilityOnly() {
	var m milp.Model
	x := m.AddVar(0, 5, milp.Integer, "x")
	y := m.AddVar(0, 5, milp.Continuous, "y")
	m.AddConstr(milp.Sum(x, y), milp.Equal, milp.Const(3.5), "sum")
	m.AddConstr(milp.Sum(x), milp.GreaterEq, milp.Const(2), "x_min")

	sol, err := s.solver().Solve(&m)
	require.NoError(s.T(), err)
	require.Equal(s.T(), milp.StatusOptimal, sol.Status)
	require.InDelta(s.T(), 3.5, sol.Values[x]+sol.Values[y], 1e-6)
	require.GreaterOrEqual(s.T(), sol.Values[x], 2.0)
}

func TestSolverSuite(t *testing.T) {
	for _, order := range []bnb.NodeOrder{bnb.DepthFirst, bnb.BreadthFirst, bnb.BestBound} {
		suite.Run(t, &SolverSuite{order: order})
	}
}

// TestRelaxationOnly: min x + y with x + 2y ≥ 4, 3x + y ≥ 6 is solved at
// the root, at (1.6, 1.2).
func TestRelaxationOnly(t *testing.T) {
	var m milp.Model
	x := m.AddVar(0, 10, milp.Continuous, "x")
	y := m.AddVar(0, 10, milp.Continuous, "y")
	m.AddConstr(milp.Sum(x).Term(2, y), milp.GreaterEq, milp.Const(4), "r1")
	m.AddConstr(milp.NewExpr().Term(3, x).Term(1, y), milp.GreaterEq, milp.Const(6), "r2")
	m.SetObjective(milp.Sum(x, y))

	sol, err := bnb.New().Solve(&m)
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, sol.Status)
	require.InDelta(t, 2.8, sol.Objective, 1e-6)
	require.InDelta(t, 1.6, sol.Values[x], 1e-6)
	require.InDelta(t, 1.2, sol.Values[y], 1e-6)
}

func TestNodeLimit(t *testing.T) {
	var m milp.Model
	x := m.AddVar(0, 10, milp.Integer, "x")
	y := m.AddVar(0, 10, milp.Integer, "y")
	m.AddConstr(milp.NewExpr().Term(2, x).Term(2, y), milp.Equal, milp.Const(7), "odd")

	sv := bnb.New()
	sv.MaxNodes = 1
	sol, err := sv.Solve(&m)
	require.NoError(t, err)
	require.Equal(t, milp.StatusLimit, sol.Status)
}

func TestCollections(t *testing.T) {
	st := bnb.NewStack[int]()
	q := bnb.NewQueue[int]()
	for i := range 3 {
		st.Push(i)
		q.Push(i)
	}
	require.Equal(t, 3, st.Size())
	require.Equal(t, []int{2, 1, 0}, []int{st.Pop(), st.Pop(), st.Pop()})
	require.Equal(t, []int{0, 1, 2}, []int{q.Pop(), q.Pop(), q.Pop()})
	require.Equal(t, 0, q.Size())
	require.Equal(t, 0, st.Pop())
}
