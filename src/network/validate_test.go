package network_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"multiflow_decomp/src/network"
)

// diamond is s→a→t, s→b→t carrying one path of weight 5 on a and one of 3 on b.
func diamond() *network.Network {
	net := network.New()
	net.AddEdge("s", "a", 5)
	net.AddEdge("s", "b", 3)
	net.AddEdge("a", "t", 5)
	net.AddEdge("b", "t", 3)
	return net
}

func TestValidateDiamond(t *testing.T) {
	net := diamond()
	shape, err := network.Validate(net, 1, network.PointData, nil)
	require.NoError(t, err)

	s, _ := net.NodeIndex("s")
	tt, _ := net.NodeIndex("t")
	require.Equal(t, s, shape.Source)
	require.Equal(t, tt, shape.Sink)
	require.Equal(t, 5.0, shape.WMax)
	require.Len(t, shape.Order, 4)
	require.Equal(t, s, shape.Order[0])
	require.Equal(t, tt, shape.Order[3])
	require.Empty(t, shape.Subpaths)
}

func TestValidateSubpaths(t *testing.T) {
	net := diamond()
	shape, err := network.Validate(net, 1, network.PointData, []network.Subpath{{"s", "a", "t"}})
	require.NoError(t, err)

	sa, _ := net.EdgeBetween("s", "a")
	at, _ := net.EdgeBetween("a", "t")
	require.Equal(t, [][]int{{sa, at}}, shape.Subpaths)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *network.Network
		numFlows int
		kind     network.DataKind
		subpaths []network.Subpath
		want     error
	}{
		{
			name: "cycle",
			build: func() *network.Network {
				net := network.New()
				net.AddEdge("s", "a", 1)
				net.AddEdge("a", "b", 1)
				net.AddEdge("b", "a", 1)
				net.AddEdge("b", "t", 1)
				return net
			},
			numFlows: 1,
			want:     network.ErrNotDAG,
		},
		{
			name: "self loop",
			build: func() *network.Network {
				net := network.New()
				net.AddEdge("s", "s", 1)
				net.AddEdge("s", "t", 1)
				return net
			},
			numFlows: 1,
			want:     network.ErrNotDAG,
		},
		{
			name: "parallel edges",
			build: func() *network.Network {
				net := network.New()
				net.AddEdge("s", "t", 1)
				net.AddEdge("s", "t", 2)
				return net
			},
			numFlows: 1,
			want:     network.ErrDuplicateEdge,
		},
		{
			name: "two sources",
			build: func() *network.Network {
				net := network.New()
				net.AddEdge("s1", "t", 1)
				net.AddEdge("s2", "t", 1)
				return net
			},
			numFlows: 1,
			want:     network.ErrNotSingleSourceSink,
		},
		{
			name:     "empty",
			build:    network.New,
			numFlows: 1,
			want:     network.ErrNotSingleSourceSink,
		},
		{
			name: "missing flows",
			build: func() *network.Network {
				net := network.New()
				net.AddEdge("s", "t")
				return net
			},
			numFlows: 1,
			want:     network.ErrMissingCommodityAttribute,
		},
		{
			name:     "count mismatch",
			build:    diamond,
			numFlows: 2,
			want:     network.ErrCommodityCountMismatch,
		},
		{
			name:     "no flows",
			build:    diamond,
			numFlows: 0,
			want:     network.ErrCommodityCountMismatch,
		},
		{
			name: "negative",
			build: func() *network.Network {
				net := network.New()
				net.AddEdge("s", "t", -1)
				return net
			},
			numFlows: 1,
			want:     network.ErrNegativeCommodityValue,
		},
		{
			name: "interval upside down",
			build: func() *network.Network {
				net := network.New()
				net.AddIntervalEdge("s", "t", network.Interval{Lower: 4, Upper: 2})
				return net
			},
			numFlows: 1,
			kind:     network.IntervalData,
			want:     network.ErrInvalidCommodityFormat,
		},
		{
			name:     "point data read as intervals",
			build:    diamond,
			numFlows: 1,
			kind:     network.IntervalData,
			want:     network.ErrMissingCommodityAttribute,
		},
		{
			name:     "subpath without edge",
			build:    diamond,
			numFlows: 1,
			subpaths: []network.Subpath{{"a", "b"}},
			want:     network.ErrInvalidSubpathConstraint,
		},
		{
			name:     "subpath unknown node",
			build:    diamond,
			numFlows: 1,
			subpaths: []network.Subpath{{"s", "z"}},
			want:     network.ErrInvalidSubpathConstraint,
		},
		{
			name:     "subpath single node",
			build:    diamond,
			numFlows: 1,
			subpaths: []network.Subpath{{"s"}},
			want:     network.ErrInvalidSubpathConstraint,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := network.Validate(tc.build(), tc.numFlows, tc.kind, tc.subpaths)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateIntervalWMax(t *testing.T) {
	net := network.New()
	net.AddIntervalEdge("s", "a", network.Interval{Lower: 1, Upper: 9})
	net.AddIntervalEdge("a", "t", network.Interval{Lower: 0, Upper: 4})
	shape, err := network.Validate(net, 1, network.IntervalData, nil)
	require.NoError(t, err)
	require.Equal(t, 9.0, shape.WMax)
}

func TestCheckConservation(t *testing.T) {
	require.NoError(t, network.CheckConservation(diamond(), 1, 1e-9))

	net := diamond()
	net.AddEdge("a", "b", 1)
	require.ErrorIs(t, network.CheckConservation(net, 1, 1e-9), network.ErrFlowNotConserved)
}

func TestFlowMatrix(t *testing.T) {
	net := network.New()
	net.AddEdge("s", "a", 1, 2)
	net.AddEdge("a", "t", 3, 4)
	m := net.FlowMatrix(2)
	r, c := m.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	require.Equal(t, 4.0, m.At(1, 1))
}
