package decomp

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"multiflow_decomp/src/milp"
)

// Family is the role a group of decision variables plays in a formulation.
type Family int

const (
	EdgeSelector Family = iota
	PathWeight
	Product
	EdgeError
	SlackVar
	SlackProduct
	SubpathIndicator
)

var familyNames = [...]string{
	EdgeSelector:     "x",
	PathWeight:       "w",
	Product:          "pi",
	EdgeError:        "ee",
	SlackVar:         "rho",
	SlackProduct:     "gamma",
	SubpathIndicator: "sub",
}

// String is the prefix of the column names of the family.
func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("family%d", int(f))
	}
	return familyNames[f]
}

type edgePath struct{ edge, path int }
type pathFlow struct{ path, flow int }
type edgePathFlow struct{ edge, path, flow int }
type edgeFlow struct{ edge, flow int }
type pathSubpath struct{ path, subpath int }

func (i edgePath) String() string     { return fmt.Sprintf("[e=%d,i=%d]", i.edge, i.path) }
func (i pathFlow) String() string     { return fmt.Sprintf("[i=%d,j=%d]", i.path, i.flow) }
func (i edgePathFlow) String() string { return fmt.Sprintf("[e=%d,i=%d,j=%d]", i.edge, i.path, i.flow) }
func (i edgeFlow) String() string     { return fmt.Sprintf("[e=%d,j=%d]", i.edge, i.flow) }
func (i pathSubpath) String() string  { return fmt.Sprintf("[i=%d,p=%d]", i.path, i.subpath) }

// catalog hands out the variables of one formulation and remembers which
// families it has declared.
type catalog struct {
	model    *milp.Model
	families mapset.Set[Family]
	names    mapset.Set[string]
}

func newCatalog(m *milp.Model) *catalog {
	return &catalog{
		model:    m,
		families: mapset.NewThreadUnsafeSet[Family](),
		names:    mapset.NewThreadUnsafeSet[string](),
	}
}

func (c *catalog) registerName(name string) error {
	var clash string
	c.names.Each(func(other string) bool {
		if strings.HasPrefix(other, name) || strings.HasPrefix(name, other) {
			clash = other
			return true
		}
		return false
	})
	if clash != "" {
		return fmt.Errorf("%w: %q overlaps %q", ErrVariableFamilyCollision, name, clash)
	}
	c.names.Add(name)
	return nil
}

func (c *catalog) register(f Family) error {
	if c.families.Contains(f) {
		return fmt.Errorf("%w: family %q declared twice", ErrVariableFamilyCollision, f)
	}
	if err := c.registerName(f.String()); err != nil {
		return err
	}
	c.families.Add(f)
	return nil
}

// declare adds one variable per index, all sharing bounds and kind.
func declare[K comparable](c *catalog, f Family, indices []K, lb, ub float64, kind milp.VarKind) (map[K]milp.Var, error) {
	if err := c.register(f); err != nil {
		return nil, err
	}
	vars := make(map[K]milp.Var, len(indices))
	for _, idx := range indices {
		vars[idx] = c.model.AddVar(lb, ub, kind, fmt.Sprintf("%s%v", f, idx))
	}
	return vars, nil
}
