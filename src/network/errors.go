package network

import "errors"

// Validation failures. Callers branch on them with errors.Is; the returned
// errors wrap these with the offending edge, node or subpath.
var (
	ErrNotDAG                    = errors.New("network: graph is not a directed acyclic graph")
	ErrNotSingleSourceSink       = errors.New("network: graph is not an s-t graph")
	ErrDuplicateEdge             = errors.New("network: parallel edges are not supported")
	ErrMissingCommodityAttribute = errors.New("network: edge has no flow values")
	ErrCommodityCountMismatch    = errors.New("network: number of flows does not match")
	ErrInvalidCommodityFormat    = errors.New("network: invalid flow value")
	ErrNegativeCommodityValue    = errors.New("network: negative flow value")
	ErrInvalidSubpathConstraint  = errors.New("network: invalid subpath constraint")
	ErrFlowNotConserved          = errors.New("network: flow is not conserved")
)
