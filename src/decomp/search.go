package decomp

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"multiflow_decomp/src/milp"
	"multiflow_decomp/src/network"
)

// NoSolution is the report of a search that found nothing in its k range.
const NoSolution = "No solution found in specified range of k."

// objectiveTol is the absolute difference under which two objectives count
// as equal.
const objectiveTol = 1e-6

// KRange is the inclusive range of path counts a search tries, smallest
// first.
type KRange struct {
	Min int
	Max int
}

func (r KRange) validate() error {
	if r.Min < 1 || r.Max < r.Min {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidKRange, r.Min, r.Max)
	}
	return nil
}

// Decomposer searches for the smallest k for which a network decomposes
// into k weighted paths under Config.
type Decomposer struct {
	Solver milp.Solver
	Config Config
	KRange KRange
	Logger logrus.FieldLogger
}

func NewDecomposer(solver milp.Solver, cfg Config, ks KRange) *Decomposer {
	return &Decomposer{
		Solver: solver,
		Config: cfg,
		KRange: ks,
		Logger: logrus.StandardLogger(),
	}
}

// Round is the outcome of the model solved for one k.
type Round struct {
	K         int
	Status    milp.Status
	Objective float64
	Elapsed   time.Duration
}

type Result struct {
	Mode Mode
	// Decomposition is nil when the search found nothing.
	Decomposition *Decomposition
	Rounds        []Round
}

func (r *Result) Found() bool { return r.Decomposition != nil }

func (r *Result) String() string {
	if !r.Found() {
		return NoSolution
	}
	d := r.Decomposition
	switch r.Mode {
	case TotalError:
		return fmt.Sprintf("Optimal solution: %d distinct paths and total error %g:\n%s", d.K, d.Objective, d)
	case PathSlack:
		return fmt.Sprintf("Optimal solution: %d distinct paths and total path error %g:\n%s", d.K, d.Objective, d)
	}
	return fmt.Sprintf("Found a solution with %d distinct paths:\n%s", d.K, d)
}

// Trace lists the rounds in the order they were solved.
func (r *Result) Trace() string {
	var sb strings.Builder
	for _, rd := range r.Rounds {
		if rd.Status.Optimal() {
			fmt.Fprintf(&sb, "k=%d: %s, objective %g (%v)\n", rd.K, rd.Status, rd.Objective, rd.Elapsed)
		} else {
			fmt.Fprintf(&sb, "No solution for %d paths: %s (%v)\n", rd.K, rd.Status, rd.Elapsed)
		}
	}
	return sb.String()
}

type round struct {
	Round
	dec *Decomposition
}

type solveRound func(k int) (*round, error)

// Decompose validates net once and then solves one model per k in the
// configured range until the mode's stopping rule fires.
func (d *Decomposer) Decompose(net *network.Network, numFlows int, subpaths []network.Subpath) (*Result, error) {
	if err := d.KRange.validate(); err != nil {
		return nil, err
	}
	if d.Config.Mode < Exact || d.Config.Mode > PathSlack {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(d.Config.Mode))
	}
	shape, err := network.Validate(net, numFlows, d.Config.Mode.dataKind(), subpaths)
	if err != nil {
		return nil, err
	}
	return d.search(func(k int) (*round, error) {
		return d.solve(net, shape, numFlows, k)
	})
}

func (d *Decomposer) solve(net *network.Network, shape *network.Shape, numFlows, k int) (*round, error) {
	start := time.Now()
	f, err := buildFormulation(net, shape, numFlows, k, d.Config)
	if err != nil {
		return nil, err
	}
	sol, err := d.Solver.Solve(f.model)
	if err != nil {
		return nil, fmt.Errorf("error while solving for k=%d: %w", k, err)
	}
	r := &round{Round: Round{K: k, Status: sol.Status, Objective: math.Inf(1)}}
	if sol.Status.Optimal() {
		if r.dec, err = f.extract(sol); err != nil {
			return nil, err
		}
		r.Objective = r.dec.Objective
	}
	r.Elapsed = time.Since(start)
	return r, nil
}

// searchState is the best solution seen so far by an optimizing search.
type searchState struct {
	bestK         int
	bestObjective float64
	best          *Decomposition
}

func newSearchState() *searchState {
	return &searchState{bestObjective: math.Inf(1)}
}

func (s *searchState) record(r *round) {
	s.bestK, s.bestObjective, s.best = r.K, r.Objective, r.dec
}

func (d *Decomposer) search(solve solveRound) (*Result, error) {
	res := &Result{Mode: d.Config.Mode}
	state := newSearchState()

	for k := d.KRange.Min; k <= d.KRange.Max; k++ {
		r, err := solve(k)
		if err != nil {
			return res, err
		}
		res.Rounds = append(res.Rounds, r.Round)
		d.Logger.WithFields(logrus.Fields{
			"mode":      d.Config.Mode.String(),
			"k":         k,
			"status":    r.Status.String(),
			"objective": r.Objective,
			"elapsed":   r.Elapsed,
		}).Info("round solved")

		if !r.Status.Optimal() {
			// PathSlack compares each round with the one before it, and an
			// infeasible round has objective +Inf.
			if d.Config.Mode == PathSlack {
				state = newSearchState()
			}
			continue
		}
		if !d.Config.Mode.optimizing() {
			res.Decomposition = r.dec
			return res, nil
		}

		if state.best != nil && d.plateau(r.Objective, state.bestObjective) {
			d.Logger.WithField("k", state.bestK).Debug("objective stopped improving")
			res.Decomposition = state.best
			return res, nil
		}
		if r.Objective < state.bestObjective {
			state.record(r)
		}
		if d.Config.Mode == TotalError && math.Abs(r.Objective) <= objectiveTol {
			res.Decomposition = r.dec
			return res, nil
		}
	}
	return res, nil
}

// plateau reports whether obj fails to beat best in the way that ends the
// search. TotalError stops on any non-improvement, PathSlack only on an
// objective equal to the best one.
func (d *Decomposer) plateau(obj, best float64) bool {
	if d.Config.Mode == TotalError {
		return obj >= best-objectiveTol
	}
	return math.Abs(obj-best) <= objectiveTol
}
