package decomp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"multiflow_decomp/src/milp"
	"multiflow_decomp/src/network"
)

// twoCommodities is a diamond where flow 1 only uses s-a-t and flow 2 only
// uses s-b-t.
func twoCommodities() *network.Network {
	net := network.New()
	net.AddEdge("s", "a", 5, 0)
	net.AddEdge("a", "t", 5, 0)
	net.AddEdge("s", "b", 0, 3)
	net.AddEdge("b", "t", 0, 3)
	return net
}

func build(t *testing.T, net *network.Network, cfg Config, k int, subpaths []network.Subpath) *formulation {
	t.Helper()
	shape, err := network.Validate(net, 2, cfg.Mode.dataKind(), subpaths)
	require.NoError(t, err)
	f, err := buildFormulation(net, shape, 2, k, cfg)
	require.NoError(t, err)
	return f
}

func TestFormulationSize(t *testing.T) {
	// 4 edges, 2 paths, 2 flows: 8 selectors, 4 weights, 16 products with
	// 4 envelope rows each, and 6 path rows (1 start + 2 interior per path).
	tests := []struct {
		mode       Mode
		vars, rows int
	}{
		{Exact, 28, 64 + 6 + 8},
		{Bounded, 28, 64 + 6 + 16},
		{TotalError, 28 + 8, 64 + 6 + 16},
		{PathSlack, 28 + 2 + 8, 64 + 32 + 6 + 16},
	}
	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			f := build(t, twoCommodities(), Config{Mode: tc.mode, ErrorBound: 1}, 2, nil)
			require.Equal(t, tc.vars, f.model.NumVars())
			require.Equal(t, tc.rows, f.model.NumConstraints())
		})
	}
}

func TestFormulationSubpaths(t *testing.T) {
	f := build(t, twoCommodities(), Config{Mode: Exact}, 2, []network.Subpath{{"s", "a", "t"}})
	require.Equal(t, 28+2, f.model.NumVars())
	// one claim row, one cover row per path, one weight row per path
	require.Equal(t, 64+6+8+5, f.model.NumConstraints())
	require.Len(t, f.sub, 2)
}

func TestObjectiveByMode(t *testing.T) {
	f := build(t, twoCommodities(), Config{Mode: Exact}, 1, nil)
	for _, c := range f.model.ColCosts {
		require.Zero(t, c)
	}

	f = build(t, twoCommodities(), Config{Mode: TotalError}, 1, nil)
	for idx, v := range f.ee {
		require.Equal(t, 1.0, f.model.ColCosts[v], idx.String())
	}

	f = build(t, twoCommodities(), Config{Mode: PathSlack}, 1, nil)
	require.Equal(t, 1.0, f.model.ColCosts[f.rho[0]])
	require.Zero(t, f.model.ColCosts[f.gamma[edgePath{0, 0}]])
}

func TestIntegerWeights(t *testing.T) {
	f := build(t, twoCommodities(), Config{Mode: Exact, IntegerWeights: true}, 1, nil)
	require.Equal(t, milp.Integer, f.model.VarTypes[f.w[pathFlow{0, 0}]])
	require.Equal(t, milp.Integer, f.model.VarTypes[f.pi[edgePathFlow{0, 0, 0}]])
	require.Equal(t, 5.0, f.model.ColUpper[f.w[pathFlow{0, 1}]])
}

func TestMinPathWeight(t *testing.T) {
	f := build(t, twoCommodities(), Config{Mode: Exact}, 1, nil)
	require.Equal(t, 1.0, f.minPathWeight())
	f.cfg.MinPathWeight = 2.5
	require.Equal(t, 2.5, f.minPathWeight())
}

func TestExtractBrokenPath(t *testing.T) {
	f := build(t, twoCommodities(), Config{Mode: Exact}, 1, nil)
	sol := &milp.Solution{Status: milp.StatusOptimal, Values: make([]float64, f.model.NumVars())}
	_, err := f.extract(sol)
	require.ErrorIs(t, err, ErrBrokenPath)
}

func TestParseMode(t *testing.T) {
	for m := Exact; m <= PathSlack; m++ {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err := ParseMode("fastest")
	require.ErrorIs(t, err, ErrUnknownMode)
}
