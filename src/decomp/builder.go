package decomp

import (
	"fmt"
	"math"
	"strings"

	"multiflow_decomp/src/milp"
	"multiflow_decomp/src/network"
)

// Mode selects how path weights must reproduce the edge flows.
type Mode int

const (
	// Exact requires Σ path weights == flow on every edge and commodity.
	Exact Mode = iota
	// Bounded allows each edge to be off by at most Config.ErrorBound.
	Bounded
	// Inexact reads interval data and keeps every sum inside its interval.
	Inexact
	// TotalError minimises the summed absolute edge errors.
	TotalError
	// PathSlack gives every path a slack and minimises the summed slacks.
	PathSlack
)

var modeNames = [...]string{
	Exact:      "exact",
	Bounded:    "bounded",
	Inexact:    "inexact",
	TotalError: "min-error",
	PathSlack:  "min-path-error",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode%d", int(m))
	}
	return modeNames[m]
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) dataKind() network.DataKind {
	if m == Inexact {
		return network.IntervalData
	}
	return network.PointData
}

// optimizing reports whether the mode has an objective to drive down, as
// opposed to a plain feasibility question.
func (m Mode) optimizing() bool {
	return m == TotalError || m == PathSlack
}

type Config struct {
	Mode Mode
	// ErrorBound is the per-edge tolerance of Bounded mode.
	ErrorBound float64
	// IntegerWeights restricts path weights to integers.
	IntegerWeights bool
	// MinPathWeight is the least total weight a path may carry when subpath
	// constraints are given. Zero or less means min(1, WMax).
	MinPathWeight float64
}

// formulation is the MILP of one (network, k) pair together with the
// variable handles needed to read a solution back.
type formulation struct {
	net      *network.Network
	shape    *network.Shape
	numFlows int
	k        int
	cfg      Config

	model *milp.Model
	vars  *catalog

	x     map[edgePath]milp.Var
	w     map[pathFlow]milp.Var
	pi    map[edgePathFlow]milp.Var
	ee    map[edgeFlow]milp.Var
	rho   map[int]milp.Var
	gamma map[edgePath]milp.Var
	sub   map[pathSubpath]milp.Var
}

func buildFormulation(net *network.Network, shape *network.Shape, numFlows, k int, cfg Config) (*formulation, error) {
	f := &formulation{
		net:      net,
		shape:    shape,
		numFlows: numFlows,
		k:        k,
		cfg:      cfg,
		model:    new(milp.Model),
	}
	f.vars = newCatalog(f.model)

	if err := f.declareVariables(); err != nil {
		return nil, err
	}
	f.addPathConstraints()
	f.addProducts()
	if err := f.addReconstruction(); err != nil {
		return nil, err
	}
	f.addSubpathConstraints()
	f.setObjective()
	return f, nil
}

func (f *formulation) edgePaths() []edgePath {
	idx := make([]edgePath, 0, f.net.NumEdges()*f.k)
	for e := range f.net.NumEdges() {
		for i := range f.k {
			idx = append(idx, edgePath{e, i})
		}
	}
	return idx
}

func (f *formulation) declareVariables() error {
	wMax := f.shape.WMax
	weightKind := milp.Continuous
	if f.cfg.IntegerWeights {
		weightKind = milp.Integer
	}

	var err error
	if f.x, err = declare(f.vars, EdgeSelector, f.edgePaths(), 0, 1, milp.Binary); err != nil {
		return err
	}

	pathFlows := make([]pathFlow, 0, f.k*f.numFlows)
	for i := range f.k {
		for j := range f.numFlows {
			pathFlows = append(pathFlows, pathFlow{i, j})
		}
	}
	if f.w, err = declare(f.vars, PathWeight, pathFlows, 0, wMax, weightKind); err != nil {
		return err
	}

	products := make([]edgePathFlow, 0, f.net.NumEdges()*f.k*f.numFlows)
	for e := range f.net.NumEdges() {
		for i := range f.k {
			for j := range f.numFlows {
				products = append(products, edgePathFlow{e, i, j})
			}
		}
	}
	if f.pi, err = declare(f.vars, Product, products, 0, wMax, weightKind); err != nil {
		return err
	}

	switch f.cfg.Mode {
	case TotalError:
		edgeFlows := make([]edgeFlow, 0, f.net.NumEdges()*f.numFlows)
		for e := range f.net.NumEdges() {
			for j := range f.numFlows {
				edgeFlows = append(edgeFlows, edgeFlow{e, j})
			}
		}
		if f.ee, err = declare(f.vars, EdgeError, edgeFlows, 0, wMax, milp.Continuous); err != nil {
			return err
		}
	case PathSlack:
		paths := make([]int, f.k)
		for i := range paths {
			paths[i] = i
		}
		if f.rho, err = declare(f.vars, SlackVar, paths, 0, wMax, milp.Continuous); err != nil {
			return err
		}
		if f.gamma, err = declare(f.vars, SlackProduct, f.edgePaths(), 0, wMax, milp.Continuous); err != nil {
			return err
		}
	}

	if len(f.shape.Subpaths) > 0 {
		claims := make([]pathSubpath, 0, f.k*len(f.shape.Subpaths))
		for i := range f.k {
			for p := range f.shape.Subpaths {
				claims = append(claims, pathSubpath{i, p})
			}
		}
		if f.sub, err = declare(f.vars, SubpathIndicator, claims, 0, 1, milp.Binary); err != nil {
			return err
		}
	}
	return nil
}

// addPathConstraints makes every path leave the source exactly once and
// conserve its selector at every interior node, so the selected edges of
// each path form one source-to-sink walk.
func (f *formulation) addPathConstraints() {
	for _, v := range f.shape.Order {
		in, out := f.net.In(v), f.net.Out(v)
		for i := range f.k {
			switch {
			case len(in) == 0:
				leave := milp.NewExpr()
				for _, e := range out {
					leave.Term(1, f.x[edgePath{e, i}])
				}
				f.model.AddConstr(leave, milp.Equal, milp.Const(1),
					fmt.Sprintf("start_%s_i=%d", f.net.Node(v), i))
			case len(out) > 0:
				balance := milp.NewExpr()
				for _, e := range in {
					balance.Term(1, f.x[edgePath{e, i}])
				}
				for _, e := range out {
					balance.Term(-1, f.x[edgePath{e, i}])
				}
				f.model.AddConstr(balance, milp.Equal, milp.Const(0),
					fmt.Sprintf("cons_%s_i=%d", f.net.Node(v), i))
			}
		}
	}
}

func (f *formulation) addProducts() {
	wMax := f.shape.WMax
	for e := range f.net.NumEdges() {
		for i := range f.k {
			for j := range f.numFlows {
				idx := edgePathFlow{e, i, j}
				linkProduct(f.model, f.x[edgePath{e, i}], f.w[pathFlow{i, j}], f.pi[idx],
					0, wMax, "pi"+idx.String())
			}
			if f.cfg.Mode == PathSlack {
				idx := edgePath{e, i}
				linkProduct(f.model, f.x[idx], f.rho[i], f.gamma[idx], 0, wMax, "gamma"+idx.String())
			}
		}
	}
}

// carried is Σ_i pi[e,i,j], the weight the k paths put on edge e for flow j.
func (f *formulation) carried(e, j int) *milp.Expr {
	sum := milp.NewExpr()
	for i := range f.k {
		sum.Term(1, f.pi[edgePathFlow{e, i, j}])
	}
	return sum
}

func (f *formulation) addReconstruction() error {
	for e := range f.net.NumEdges() {
		edge := f.net.Edge(e)
		for j := range f.numFlows {
			name := fmt.Sprintf("flow[e=%d,j=%d]", e, j)
			sum := f.carried(e, j)
			switch f.cfg.Mode {
			case Exact:
				f.model.AddConstr(sum, milp.Equal, milp.Const(edge.Flows[j]), name)
			case Bounded:
				flow, bound := edge.Flows[j], f.cfg.ErrorBound
				f.model.AddConstr(sum, milp.LessEq, milp.Const(flow+bound), name+"_ub")
				f.model.AddConstr(sum, milp.GreaterEq, milp.Const(flow-bound), name+"_lb")
			case Inexact:
				iv := edge.Bounds[j]
				f.model.AddRange(iv.Lower, sum, iv.Upper, name)
			case TotalError:
				residual := milp.Const(edge.Flows[j]).AddExpr(sum, -1)
				errVar := milp.Sum(f.ee[edgeFlow{e, j}])
				f.model.AddConstr(residual, milp.LessEq, errVar, name+"_ub")
				f.model.AddConstr(residual.Clone(), milp.GreaterEq, errVar.Clone(), name+"_lb")
			case PathSlack:
				slack := milp.NewExpr()
				for i := range f.k {
					slack.Term(1, f.gamma[edgePath{e, i}])
				}
				residual := milp.Const(edge.Flows[j]).AddExpr(sum, -1)
				f.model.AddConstr(residual, milp.LessEq, slack, name+"_ub")
				f.model.AddConstr(residual.Clone(), milp.GreaterEq, milp.NewExpr().AddExpr(slack, -1), name+"_lb")
			default:
				return fmt.Errorf("%w: %d", ErrUnknownMode, int(f.cfg.Mode))
			}
		}
	}
	return nil
}

func (f *formulation) minPathWeight() float64 {
	if f.cfg.MinPathWeight > 0 {
		return f.cfg.MinPathWeight
	}
	return math.Min(1, f.shape.WMax)
}

// addSubpathConstraints requires every subpath to be fully contained in at
// least one of the k paths, and every path to carry some weight so that a
// claim is not made by an empty path.
func (f *formulation) addSubpathConstraints() {
	if len(f.shape.Subpaths) == 0 {
		return
	}
	for p, arcs := range f.shape.Subpaths {
		claimed := milp.NewExpr()
		for i := range f.k {
			claimed.Term(1, f.sub[pathSubpath{i, p}])
		}
		f.model.AddConstr(claimed, milp.GreaterEq, milp.Const(1), fmt.Sprintf("subpath[p=%d]", p))

		for i := range f.k {
			covered := milp.NewExpr()
			for _, e := range arcs {
				covered.Term(1, f.x[edgePath{e, i}])
			}
			claim := milp.NewExpr().Term(float64(len(arcs)), f.sub[pathSubpath{i, p}])
			f.model.AddConstr(covered, milp.GreaterEq, claim, "cover"+pathSubpath{i, p}.String())
		}
	}
	minWeight := f.minPathWeight()
	for i := range f.k {
		total := milp.NewExpr()
		for j := range f.numFlows {
			total.Term(1, f.w[pathFlow{i, j}])
		}
		f.model.AddConstr(total, milp.GreaterEq, milp.Const(minWeight), fmt.Sprintf("weight[i=%d]", i))
	}
}

func (f *formulation) setObjective() {
	obj := milp.NewExpr()
	switch f.cfg.Mode {
	case TotalError:
		for e := range f.net.NumEdges() {
			for j := range f.numFlows {
				obj.Term(1, f.ee[edgeFlow{e, j}])
			}
		}
	case PathSlack:
		for i := range f.k {
			obj.Term(1, f.rho[i])
		}
	}
	f.model.SetObjective(obj)
}
