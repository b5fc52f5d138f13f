package network

import (
	"fmt"
	"math/rand"
)

// GroundTruth is the set of weighted paths an instance was built from.
type GroundTruth struct {
	Paths   [][]string
	Weights [][]float64
}

// Superimpose builds the network obtained by routing every path's weights
// along its edges and summing them per commodity.
func Superimpose(numFlows int, paths [][]string, weights [][]float64) *Network {
	net := New()
	for i, path := range paths {
		for h := 1; h < len(path); h++ {
			e, ok := net.EdgeBetween(path[h-1], path[h])
			if !ok {
				e = net.AddEdge(path[h-1], path[h], make([]float64, numFlows)...)
			}
			for j := range numFlows {
				net.edges[e].Flows[j] += weights[i][j]
			}
		}
	}
	return net
}

// RandomInstance draws numPaths source-to-sink paths through a layered DAG
// with the given number of layers and nodes per layer, gives each path an
// integer weight in [0, maxWeight] per commodity and superimposes them.
func RandomInstance(rng *rand.Rand, layers, width, numPaths, numFlows, maxWeight int) (*Instance, *GroundTruth) {
	truth := &GroundTruth{
		Paths:   make([][]string, numPaths),
		Weights: make([][]float64, numPaths),
	}
	for i := range numPaths {
		path := make([]string, 0, layers+2)
		path = append(path, "s")
		for l := range layers {
			path = append(path, fmt.Sprintf("v%d_%d", l, rng.Intn(width)))
		}
		path = append(path, "t")
		truth.Paths[i] = path

		w := make([]float64, numFlows)
		for j := range numFlows {
			w[j] = float64(rng.Intn(maxWeight + 1))
		}
		truth.Weights[i] = w
	}

	return &Instance{
		Name:     fmt.Sprintf("random_%dx%d_k%d_f%d", layers, width, numPaths, numFlows),
		NumFlows: numFlows,
		Kind:     PointData,
		Network:  Superimpose(numFlows, truth.Paths, truth.Weights),
	}, truth
}
