package decomp

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"multiflow_decomp/src/milp"
	"multiflow_decomp/src/network"
)

// Path is one source-to-sink walk of a decomposition.
type Path struct {
	Nodes []string
	// Weights holds the weight the path carries for each flow.
	Weights *mat.VecDense
	// Slack is the path's slack in PathSlack mode, zero otherwise.
	Slack float64
	// Claims lists the subpath constraints this path is credited with.
	Claims []int
}

type Decomposition struct {
	Mode      Mode
	K         int
	NumFlows  int
	Paths     []Path
	Objective float64
	// EdgeErrors is the edges × flows matrix of deviations in TotalError
	// mode, nil otherwise.
	EdgeErrors *mat.Dense
}

// clean drops solver noise below 1e-6 so reports print 5 rather than
// 4.9999999.
func clean(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

func (f *formulation) walk(sol *milp.Solution, i int) ([]string, error) {
	v := f.shape.Source
	nodes := []string{f.net.Node(v)}
	for v != f.shape.Sink {
		if len(nodes) > f.net.NumNodes() {
			return nil, fmt.Errorf("%w: path %d revisits a node", ErrBrokenPath, i)
		}
		next := -1
		for _, e := range f.net.Out(v) {
			if sol.Value(f.x[edgePath{e, i}]) > 0.5 {
				next = e
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: path %d stops at %q", ErrBrokenPath, i, f.net.Node(v))
		}
		v = f.net.Edge(next).To
		nodes = append(nodes, f.net.Node(v))
	}
	return nodes, nil
}

// extract reads the k paths out of an optimal solution of f.
func (f *formulation) extract(sol *milp.Solution) (*Decomposition, error) {
	dec := &Decomposition{
		Mode:      f.cfg.Mode,
		K:         f.k,
		NumFlows:  f.numFlows,
		Paths:     make([]Path, 0, f.k),
		Objective: clean(sol.Objective),
	}
	for i := range f.k {
		nodes, err := f.walk(sol, i)
		if err != nil {
			return nil, err
		}
		weights := mat.NewVecDense(f.numFlows, nil)
		for j := range f.numFlows {
			weights.SetVec(j, clean(sol.Value(f.w[pathFlow{i, j}])))
		}
		p := Path{Nodes: nodes, Weights: weights}
		if f.rho != nil {
			p.Slack = clean(sol.Value(f.rho[i]))
		}
		for s := range f.shape.Subpaths {
			if sol.Value(f.sub[pathSubpath{i, s}]) > 0.5 {
				p.Claims = append(p.Claims, s)
			}
		}
		dec.Paths = append(dec.Paths, p)
	}
	if f.ee != nil {
		dec.EdgeErrors = mat.NewDense(f.net.NumEdges(), f.numFlows, nil)
		for idx, v := range f.ee {
			dec.EdgeErrors.Set(idx.edge, idx.flow, clean(sol.Value(v)))
		}
	}
	return dec, nil
}

func (d *Decomposition) String() string {
	var sb strings.Builder
	for i, p := range d.Paths {
		fmt.Fprintf(&sb, "Path %d (carries weight", i+1)
		for j := range d.NumFlows {
			if j > 0 {
				sb.WriteString(" and")
			}
			fmt.Fprintf(&sb, " %g for flow %d", p.Weights.AtVec(j), j+1)
		}
		if d.Mode == PathSlack {
			fmt.Fprintf(&sb, ", with slack %g", p.Slack)
		}
		sb.WriteString("):\n")
		sb.WriteString(strings.Join(p.Nodes, ", "))
		sb.WriteByte('\n')
		for _, c := range p.Claims {
			fmt.Fprintf(&sb, "Path %d satisfies subpath constraint %d\n", i+1, c+1)
		}
	}
	return sb.String()
}

// Reconstruct returns the edges × flows matrix obtained by summing the path
// weights over the edges each path uses. Paths that leave net are ignored
// from the first missing edge on.
func Reconstruct(net *network.Network, dec *Decomposition) *mat.Dense {
	out := mat.NewDense(max(net.NumEdges(), 1), max(dec.NumFlows, 1), nil)
	for _, p := range dec.Paths {
		for h := 1; h < len(p.Nodes); h++ {
			e, ok := net.EdgeBetween(p.Nodes[h-1], p.Nodes[h])
			if !ok {
				break
			}
			for j := range dec.NumFlows {
				out.Set(e, j, out.At(e, j)+p.Weights.AtVec(j))
			}
		}
	}
	return out
}
