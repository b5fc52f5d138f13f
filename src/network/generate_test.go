package network_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"multiflow_decomp/src/network"
)

func TestSuperimpose(t *testing.T) {
	net := network.Superimpose(2,
		[][]string{{"s", "a", "t"}, {"s", "b", "t"}, {"s", "a", "t"}},
		[][]float64{{1, 2}, {3, 4}, {5, 6}})

	require.Equal(t, 4, net.NumEdges())
	sa, ok := net.EdgeBetween("s", "a")
	require.True(t, ok)
	require.Equal(t, []float64{6, 8}, net.Edge(sa).Flows)
	bt, ok := net.EdgeBetween("b", "t")
	require.True(t, ok)
	require.Equal(t, []float64{3, 4}, net.Edge(bt).Flows)
}

func TestRandomInstanceIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 10 {
		inst, truth := network.RandomInstance(rng, 3, 3, 4, 2, 10)
		require.Len(t, truth.Paths, 4)
		require.Len(t, truth.Weights, 4)

		_, err := network.Validate(inst.Network, inst.NumFlows, inst.Kind, nil)
		require.NoError(t, err)
		require.NoError(t, network.CheckConservation(inst.Network, inst.NumFlows, 1e-9))
	}
}
