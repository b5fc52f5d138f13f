package network

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Instance is a network together with everything needed to decompose it.
type Instance struct {
	Name     string
	NumFlows int
	Kind     DataKind
	Network  *Network
	Subpaths []Subpath
}

type instanceFile struct {
	Name     string       `toml:"name"`
	NumFlows int          `toml:"num_flows"`
	Edges    []edgeRecord `toml:"edges"`
	Subpaths [][]string   `toml:"subpaths"`
}

type edgeRecord struct {
	From   string      `toml:"from"`
	To     string      `toml:"to"`
	Flows  []float64   `toml:"flows,omitempty"`
	Bounds [][]float64 `toml:"bounds,omitempty"`
}

func errorCoalesce(args ...error) error {
	for _, e := range args {
		if e != nil {
			return e
		}
	}
	return nil
}

func (inst *Instance) parseHeader(f *instanceFile) error {
	if f.NumFlows <= 0 {
		return fmt.Errorf("error while parsing header: num_flows must be positive, got %d", f.NumFlows)
	}
	inst.Name = f.Name
	inst.NumFlows = f.NumFlows
	return nil
}

func (inst *Instance) parseEdges(f *instanceFile) error {
	inst.Network = New()
	intervals := 0
	for i, rec := range f.Edges {
		if rec.From == "" || rec.To == "" {
			return fmt.Errorf("error while parsing edge %d: missing endpoint", i)
		}
		switch {
		case rec.Flows != nil && rec.Bounds != nil:
			return fmt.Errorf("error while parsing edge %d: %w: both flows and bounds given",
				i, ErrInvalidCommodityFormat)
		case rec.Bounds != nil:
			bounds := make([]Interval, len(rec.Bounds))
			for j, pair := range rec.Bounds {
				if len(pair) != 2 {
					return fmt.Errorf("error while parsing edge %d: %w: flow %d interval has %d entries",
						i, ErrInvalidCommodityFormat, j+1, len(pair))
				}
				bounds[j] = Interval{Lower: pair[0], Upper: pair[1]}
			}
			inst.Network.AddIntervalEdge(rec.From, rec.To, bounds...)
			intervals++
		default:
			inst.Network.AddEdge(rec.From, rec.To, rec.Flows...)
		}
	}
	if intervals > 0 && intervals != len(f.Edges) {
		return fmt.Errorf("error while parsing edges: %w: mixed point and interval data", ErrInvalidCommodityFormat)
	}
	if intervals > 0 {
		inst.Kind = IntervalData
	}
	return nil
}

func (inst *Instance) parseSubpaths(f *instanceFile) error {
	for _, sp := range f.Subpaths {
		inst.Subpaths = append(inst.Subpaths, Subpath(sp))
	}
	return nil
}

// ReadInstance decodes a TOML instance.
func ReadInstance(r io.Reader) (*Instance, error) {
	var f instanceFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("error while decoding instance: %w", err)
	}
	return fromFile(&f)
}

// LoadInstance reads a TOML instance file.
func LoadInstance(filename string) (*Instance, error) {
	var f instanceFile
	if _, err := toml.DecodeFile(filename, &f); err != nil {
		return nil, fmt.Errorf("error while decoding %s: %w", filename, err)
	}
	return fromFile(&f)
}

func fromFile(f *instanceFile) (*Instance, error) {
	inst := new(Instance)
	err := errorCoalesce(
		inst.parseHeader(f),
		inst.parseEdges(f),
		inst.parseSubpaths(f),
	)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// WriteInstance encodes inst in the format LoadInstance reads.
func WriteInstance(w io.Writer, inst *Instance) error {
	f := instanceFile{
		Name:     inst.Name,
		NumFlows: inst.NumFlows,
	}
	for _, e := range inst.Network.edges {
		rec := edgeRecord{
			From:  inst.Network.nodes[e.From],
			To:    inst.Network.nodes[e.To],
			Flows: e.Flows,
		}
		for _, b := range e.Bounds {
			rec.Bounds = append(rec.Bounds, []float64{b.Lower, b.Upper})
		}
		f.Edges = append(f.Edges, rec)
	}
	for _, sp := range inst.Subpaths {
		f.Subpaths = append(f.Subpaths, []string(sp))
	}
	return toml.NewEncoder(w).Encode(f)
}
