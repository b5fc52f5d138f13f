package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"multiflow_decomp/src/network"
)

func main() {
	var outPath, truthPath string
	var layers, width, numPaths, numFlows, maxWeight int
	var seed int64

	flag.StringVar(&outPath, "out", "out.toml", "The output file")
	flag.StringVar(&truthPath, "truth", "", "Also write the generating paths to this file")
	flag.IntVar(&layers, "layers", 0, "The number of inner node layers")
	flag.IntVar(&width, "width", 0, "The number of nodes per layer")
	flag.IntVar(&numPaths, "paths", 0, "The number of superimposed paths")
	flag.IntVar(&numFlows, "flows", 1, "The number of flows on each edge")
	flag.IntVar(&maxWeight, "maxw", 20, "The largest weight of a path")
	flag.Int64Var(&seed, "seed", 0, "The random seed, 0 for the current time")

	flag.Parse()

	err := false
	if layers == 0 {
		fmt.Fprintln(os.Stderr, "Must specify the number of layers")
		err = true
	}
	if width == 0 {
		fmt.Fprintln(os.Stderr, "Must specify the layer width")
		err = true
	}
	if numPaths == 0 {
		fmt.Fprintln(os.Stderr, "Must specify the number of paths")
		err = true
	}
	if numFlows <= 0 || maxWeight <= 0 {
		fmt.Fprintln(os.Stderr, "The number of flows and the largest weight must be positive")
		err = true
	}
	if err {
		os.Exit(1)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	inst, truth := network.RandomInstance(rand.New(rand.NewSource(seed)), layers, width, numPaths, numFlows, maxWeight)

	f, ferr := os.Create(outPath)
	if ferr != nil {
		fmt.Fprintln(os.Stderr, ferr)
		os.Exit(1)
	}
	defer f.Close()
	if werr := network.WriteInstance(f, inst); werr != nil {
		fmt.Fprintln(os.Stderr, werr)
		os.Exit(1)
	}

	if truthPath != "" {
		tf, terr := os.Create(truthPath)
		if terr != nil {
			fmt.Fprintln(os.Stderr, terr)
			os.Exit(1)
		}
		defer tf.Close()
		for i, p := range truth.Paths {
			fmt.Fprintf(tf, "%v %v\n", truth.Weights[i], p)
		}
	}
}
