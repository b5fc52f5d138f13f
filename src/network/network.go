package network

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Interval is a closed range of admissible values for one commodity on an edge.
type Interval struct {
	Lower float64
	Upper float64
}

// Edge carries one value per commodity. Point data lives in Flows, interval
// data in Bounds; an edge normally fills exactly one of the two.
type Edge struct {
	From   int
	To     int
	Flows  []float64
	Bounds []Interval
}

// Subpath is a walk that at least one output path must contain.
type Subpath []string

// Network is a directed graph whose edges hold per-commodity values.
type Network struct {
	nodes []string
	index map[string]int
	edges []Edge
	out   [][]int
	in    [][]int
}

func New() *Network {
	return &Network{index: make(map[string]int)}
}

// AddNode registers id and returns its dense index. Adding an existing node
// is a no-op.
func (n *Network) AddNode(id string) int {
	if i, ok := n.index[id]; ok {
		return i
	}
	i := len(n.nodes)
	n.nodes = append(n.nodes, id)
	n.index[id] = i
	n.out = append(n.out, nil)
	n.in = append(n.in, nil)
	return i
}

// AddEdge adds from→to carrying point values, creating missing nodes.
func (n *Network) AddEdge(from, to string, flows ...float64) int {
	return n.addEdge(Edge{From: n.AddNode(from), To: n.AddNode(to), Flows: flows})
}

// AddIntervalEdge adds from→to carrying one interval per commodity.
func (n *Network) AddIntervalEdge(from, to string, bounds ...Interval) int {
	return n.addEdge(Edge{From: n.AddNode(from), To: n.AddNode(to), Bounds: bounds})
}

func (n *Network) addEdge(e Edge) int {
	i := len(n.edges)
	n.edges = append(n.edges, e)
	n.out[e.From] = append(n.out[e.From], i)
	n.in[e.To] = append(n.in[e.To], i)
	return i
}

func (n *Network) NumNodes() int { return len(n.nodes) }

func (n *Network) NumEdges() int { return len(n.edges) }

// Node returns the identifier of the node with index i.
func (n *Network) Node(i int) string { return n.nodes[i] }

func (n *Network) NodeIndex(id string) (int, bool) {
	i, ok := n.index[id]
	return i, ok
}

func (n *Network) Edge(i int) Edge { return n.edges[i] }

// Out lists the indices of the edges leaving node v.
func (n *Network) Out(v int) []int { return n.out[v] }

// In lists the indices of the edges entering node v.
func (n *Network) In(v int) []int { return n.in[v] }

// EdgeBetween returns the first edge from→to, if any.
func (n *Network) EdgeBetween(from, to string) (int, bool) {
	u, ok := n.index[from]
	if !ok {
		return 0, false
	}
	v, ok := n.index[to]
	if !ok {
		return 0, false
	}
	for _, e := range n.out[u] {
		if n.edges[e].To == v {
			return e, true
		}
	}
	return 0, false
}

// FlowMatrix lays the point values out as an edges × commodities matrix.
// Missing entries are left at zero.
func (n *Network) FlowMatrix(numFlows int) *mat.Dense {
	m := mat.NewDense(max(len(n.edges), 1), max(numFlows, 1), nil)
	for i, e := range n.edges {
		for j := range min(numFlows, len(e.Flows)) {
			m.Set(i, j, e.Flows[j])
		}
	}
	return m
}

func (n *Network) String() string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "N. nodes: %d\n", len(n.nodes))
	fmt.Fprintf(s, "N. edges: %d\n", len(n.edges))
	for _, e := range n.edges {
		fmt.Fprintf(s, "%s -> %s", n.nodes[e.From], n.nodes[e.To])
		if e.Bounds != nil {
			fmt.Fprintf(s, "\tBounds: %v\n", e.Bounds)
		} else {
			fmt.Fprintf(s, "\tFlows: %v\n", e.Flows)
		}
	}
	return s.String()
}
