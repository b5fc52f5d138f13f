package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/natefinch/lumberjack.v2"

	"multiflow_decomp/src/decomp"
	"multiflow_decomp/src/milp"
	"multiflow_decomp/src/milp/bnb"
	"multiflow_decomp/src/milp/highsolver"
	"multiflow_decomp/src/milp/lpsolve"
	"multiflow_decomp/src/network"
)

func setupLogging(logFile string, verbose bool) {
	var out io.Writer = os.Stderr
	if logFile != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.WarnLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// maxResidual is the largest absolute difference between an observed edge
// value and the value rebuilt from the paths of dec.
func maxResidual(inst *network.Instance, dec *decomp.Decomposition) float64 {
	var diff mat.Dense
	diff.Sub(inst.Network.FlowMatrix(inst.NumFlows), decomp.Reconstruct(inst.Network, dec))
	return math.Max(mat.Max(&diff), -mat.Min(&diff))
}

// modeFor picks the variant for an instance holding data of the given kind.
// An empty variant means exact for point data and inexact for intervals.
func modeFor(variant string, kind network.DataKind) (decomp.Mode, error) {
	if variant == "" {
		if kind == network.IntervalData {
			return decomp.Inexact, nil
		}
		return decomp.Exact, nil
	}
	mode, err := decomp.ParseMode(variant)
	if err != nil {
		return 0, err
	}
	if (mode == decomp.Inexact) != (kind == network.IntervalData) {
		return 0, fmt.Errorf("variant %s cannot decompose %s data; use -variant inexact for interval instances and any other variant for point instances", mode, kind)
	}
	return mode, nil
}

func newSolver(name string, order string, maxNodes int) (milp.Solver, error) {
	switch name {
	case "highs":
		return highsolver.New(), nil
	case "lpsolve":
		return lpsolve.New(), nil
	case "bnb":
		s := bnb.New()
		s.MaxNodes = maxNodes
		switch order {
		case "dfs":
			s.Order = bnb.DepthFirst
		case "bfs":
			s.Order = bnb.BreadthFirst
		case "best":
			s.Order = bnb.BestBound
		default:
			return nil, fmt.Errorf("unknown node order %q", order)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown solver %q", name)
}

func main() {
	var paths []string
	var solverName, variant, order, logFile string
	var minK, maxK, maxNodes int
	var bound, minWeight float64
	var intWeights, verbose, trace bool

	flag.Func("inst", "a list of instance file paths, separated by a whitespace", func(s string) error {
		paths = strings.Fields(s)
		return nil
	})
	flag.StringVar(&solverName, "solver", "highs", "The MILP engine: highs, lpsolve or bnb")
	flag.StringVar(&variant, "variant", "", "One of exact, bounded, inexact, min-error, min-path-error (default: exact for point data, inexact for intervals)")
	flag.IntVar(&minK, "mink", 1, "The smallest number of paths to try")
	flag.IntVar(&maxK, "maxk", 10, "The largest number of paths to try")
	flag.Float64Var(&bound, "bound", 0, "The per-edge error bound of the bounded variant")
	flag.Float64Var(&minWeight, "minweight", 0, "The least total weight of a path when subpaths are given (0 for the default)")
	flag.BoolVar(&intWeights, "intweights", false, "Restrict path weights to integers")
	flag.StringVar(&order, "order", "dfs", "Node order of the bnb solver: dfs, bfs or best")
	flag.IntVar(&maxNodes, "maxnodes", 200000, "Node limit of the bnb solver, 0 for none")
	flag.StringVar(&logFile, "logfile", "", "Also write logs to this file, rotated")
	flag.BoolVar(&verbose, "v", false, "Log every solved round")
	flag.BoolVar(&trace, "trace", false, "Print the outcome of every k")

	flag.Parse()
	setupLogging(logFile, verbose)

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Must specify at least a path")
		os.Exit(1)
	}
	if variant != "" {
		if _, err := decomp.ParseMode(variant); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	solver, err := newSolver(solverName, order, maxNodes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := decomp.Config{
		ErrorBound:     bound,
		IntegerWeights: intWeights,
		MinPathWeight:  minWeight,
	}
	d := decomp.NewDecomposer(solver, cfg, decomp.KRange{Min: minK, Max: maxK})

	for _, p := range paths {
		inst, err := network.LoadInstance(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error for instance \"%v\": %v. Skipping...\n", p, err)
			continue
		}
		d.Config.Mode, err = modeFor(variant, inst.Kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error for instance \"%v\": %v. Skipping...\n", p, err)
			continue
		}
		if inst.Kind == network.PointData {
			if err := network.CheckConservation(inst.Network, inst.NumFlows, 1e-9); err != nil {
				log.WithField("instance", p).Warn(err)
			}
		}

		fmt.Printf("Solving %v...\n", p)
		res, err := d.Decompose(inst.Network, inst.NumFlows, inst.Subpaths)
		if err != nil {
			fmt.Fprintf(os.Stderr, "An error occured while decomposing instance \"%v\": %v\n", p, err)
			continue
		}
		if trace {
			fmt.Print(res.Trace())
		}
		if res.Found() && inst.Kind == network.PointData {
			log.WithFields(log.Fields{
				"instance": p,
				"k":        res.Decomposition.K,
				"residual": maxResidual(inst, res.Decomposition),
			}).Info("decomposition found")
		}
		fmt.Printf("Instance %v:\n%v\n", p, res)
	}
}
