package network

import (
	"fmt"
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DataKind selects which edge attribute the validator reads.
type DataKind int

const (
	PointData DataKind = iota
	IntervalData
)

func (k DataKind) String() string {
	if k == IntervalData {
		return "interval"
	}
	return "point"
}

// Shape is what a successful validation learns about a network.
type Shape struct {
	Source int
	Sink   int
	// Order is a topological order of the node indices.
	Order []int
	// WMax bounds every path weight: the largest value, or interval upper
	// bound, found on any edge.
	WMax float64
	// Subpaths holds the edge indices of each subpath constraint, in walk order.
	Subpaths [][]int
}

// Validate checks that net is an s-t DAG whose edges all carry numFlows
// well-formed non-negative values of the given kind, and that every subpath
// is a walk along existing edges. It does not modify net.
func Validate(net *Network, numFlows int, kind DataKind, subpaths []Subpath) (*Shape, error) {
	if numFlows < 1 {
		return nil, fmt.Errorf("%w: need at least one flow, got %d", ErrCommodityCountMismatch, numFlows)
	}
	order, err := topologicalOrder(net)
	if err != nil {
		return nil, err
	}
	source, sink, err := terminals(net)
	if err != nil {
		return nil, err
	}

	wMax := 0.0
	for i := range net.edges {
		var v float64
		if kind == IntervalData {
			v, err = checkIntervals(net, i, numFlows)
		} else {
			v, err = checkFlows(net, i, numFlows)
		}
		if err != nil {
			return nil, err
		}
		wMax = math.Max(wMax, v)
	}

	resolved, err := resolveSubpaths(net, subpaths)
	if err != nil {
		return nil, err
	}

	return &Shape{
		Source:   source,
		Sink:     sink,
		Order:    order,
		WMax:     wMax,
		Subpaths: resolved,
	}, nil
}

func topologicalOrder(net *Network) ([]int, error) {
	g := simple.NewDirectedGraph()
	for i := range net.nodes {
		g.AddNode(simple.Node(i))
	}
	for _, e := range net.edges {
		if e.From == e.To {
			return nil, fmt.Errorf("%w: self loop on %q", ErrNotDAG, net.nodes[e.From])
		}
		if g.HasEdgeFromTo(int64(e.From), int64(e.To)) {
			return nil, fmt.Errorf("%w: (%s,%s)", ErrDuplicateEdge, net.nodes[e.From], net.nodes[e.To])
		}
		g.SetEdge(g.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}

	sorted, err := topo.SortStabilized(g, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDAG, err)
	}
	order := make([]int, len(sorted))
	for i, n := range sorted {
		order[i] = int(n.ID())
	}
	return order, nil
}

func terminals(net *Network) (source, sink int, err error) {
	sources := mapset.NewThreadUnsafeSet[int]()
	sinks := mapset.NewThreadUnsafeSet[int]()
	for v := range net.nodes {
		if len(net.in[v]) == 0 {
			sources.Add(v)
		}
		if len(net.out[v]) == 0 {
			sinks.Add(v)
		}
	}
	if len(net.edges) == 0 || sources.Cardinality() != 1 || sinks.Cardinality() != 1 {
		return 0, 0, fmt.Errorf("%w: %d sources, %d sinks", ErrNotSingleSourceSink,
			sources.Cardinality(), sinks.Cardinality())
	}
	return sources.ToSlice()[0], sinks.ToSlice()[0], nil
}

func (n *Network) edgeName(i int) string {
	return fmt.Sprintf("(%s,%s)", n.nodes[n.edges[i].From], n.nodes[n.edges[i].To])
}

func checkFlows(net *Network, i, numFlows int) (float64, error) {
	flows := net.edges[i].Flows
	if flows == nil {
		return 0, fmt.Errorf("%w: edge %s", ErrMissingCommodityAttribute, net.edgeName(i))
	}
	if len(flows) != numFlows {
		return 0, fmt.Errorf("%w: edge %s has %d values, expected %d",
			ErrCommodityCountMismatch, net.edgeName(i), len(flows), numFlows)
	}
	top := 0.0
	for j, f := range flows {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: edge %s flow %d is %v", ErrInvalidCommodityFormat, net.edgeName(i), j+1, f)
		}
		if f < 0 {
			return 0, fmt.Errorf("%w: edge %s flow %d is %v", ErrNegativeCommodityValue, net.edgeName(i), j+1, f)
		}
		top = math.Max(top, f)
	}
	return top, nil
}

func checkIntervals(net *Network, i, numFlows int) (float64, error) {
	bounds := net.edges[i].Bounds
	if bounds == nil {
		return 0, fmt.Errorf("%w: edge %s", ErrMissingCommodityAttribute, net.edgeName(i))
	}
	if len(bounds) != numFlows {
		return 0, fmt.Errorf("%w: edge %s has %d intervals, expected %d",
			ErrCommodityCountMismatch, net.edgeName(i), len(bounds), numFlows)
	}
	top := 0.0
	for j, b := range bounds {
		for _, f := range []float64{b.Lower, b.Upper} {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, fmt.Errorf("%w: edge %s flow %d bound is %v",
					ErrInvalidCommodityFormat, net.edgeName(i), j+1, f)
			}
		}
		if b.Lower > b.Upper {
			return 0, fmt.Errorf("%w: edge %s flow %d has lower bound %v above upper bound %v",
				ErrInvalidCommodityFormat, net.edgeName(i), j+1, b.Lower, b.Upper)
		}
		if b.Lower < 0 {
			return 0, fmt.Errorf("%w: edge %s flow %d lower bound is %v",
				ErrNegativeCommodityValue, net.edgeName(i), j+1, b.Lower)
		}
		top = math.Max(top, b.Upper)
	}
	return top, nil
}

func resolveSubpaths(net *Network, subpaths []Subpath) ([][]int, error) {
	resolved := make([][]int, 0, len(subpaths))
	for p, sp := range subpaths {
		if len(sp) < 2 {
			return nil, fmt.Errorf("%w: subpath %d has %d nodes", ErrInvalidSubpathConstraint, p, len(sp))
		}
		arcs := make([]int, 0, len(sp)-1)
		for i, id := range sp {
			if _, ok := net.index[id]; !ok {
				return nil, fmt.Errorf("%w: subpath %d names unknown node %q", ErrInvalidSubpathConstraint, p, id)
			}
			if i == 0 {
				continue
			}
			e, ok := net.EdgeBetween(sp[i-1], id)
			if !ok {
				return nil, fmt.Errorf("%w: subpath %d has no edge (%s,%s)",
					ErrInvalidSubpathConstraint, p, sp[i-1], id)
			}
			arcs = append(arcs, e)
		}
		resolved = append(resolved, arcs)
	}
	return resolved, nil
}

// CheckConservation reports the first interior node where some commodity's
// inflow differs from its outflow by more than tol.
func CheckConservation(net *Network, numFlows int, tol float64) error {
	for v := range net.nodes {
		if len(net.in[v]) == 0 || len(net.out[v]) == 0 {
			continue
		}
		for j := range numFlows {
			in, out := 0.0, 0.0
			for _, e := range net.in[v] {
				in += valueAt(net.edges[e].Flows, j)
			}
			for _, e := range net.out[v] {
				out += valueAt(net.edges[e].Flows, j)
			}
			if math.Abs(in-out) > tol {
				return fmt.Errorf("%w: node %q flow %d has inflow %v and outflow %v",
					ErrFlowNotConserved, net.nodes[v], j+1, in, out)
			}
		}
	}
	return nil
}

func valueAt(flows []float64, j int) float64 {
	if j < len(flows) {
		return flows[j]
	}
	return 0
}
