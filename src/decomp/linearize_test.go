package decomp

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"multiflow_decomp/src/milp"
	"multiflow_decomp/src/milp/bnb"
)

// productModel fixes binary and continuous and lets the envelope decide
// how far product can move in the direction of sign.
func productModel(binary, continuous, sign float64) *milp.Model {
	m := new(milp.Model)
	b := m.AddVar(binary, binary, milp.Binary, "b")
	c := m.AddVar(continuous, continuous, milp.Continuous, "c")
	p := m.AddVar(0, 10, milp.Continuous, "p")
	linkProduct(m, b, c, p, 0, 10, "p")
	m.SetObjective(milp.NewExpr().Term(sign, p))
	return m
}

func TestLinkProductRows(t *testing.T) {
	m := productModel(1, 7, 1)
	require.Equal(t, 4, m.NumConstraints())
	require.Equal(t, []string{"p_a", "p_b", "p_c", "p_d"}, m.RowNames)
}

func TestLinkProductIsExact(t *testing.T) {
	solver := bnb.New()
	solver.Logger = logrus.New()

	tests := []struct {
		binary, continuous, want float64
	}{
		{1, 7, 7},
		{1, 0, 0},
		{0, 7, 0},
		{1, 10, 10},
	}
	for _, tc := range tests {
		for _, sign := range []float64{1, -1} {
			sol, err := solver.Solve(productModel(tc.binary, tc.continuous, sign))
			require.NoError(t, err)
			require.Equal(t, milp.StatusOptimal, sol.Status)
			require.InDelta(t, tc.want, sol.Values[2], 1e-6, "b=%v c=%v sign=%v", tc.binary, tc.continuous, sign)
		}
	}
}
