package sets

import (
	"fmt"

	"github.com/claude/crank/internal/models"
)

// Shape names how order groups were matched to sets.
type Shape int

const (
	ShapeNone Shape = iota
	// ShapeManyToOne: "4-6) [30] 114 x 8" repeats one set at every order.
	ShapeManyToOne
	// ShapeOneToOne: "1-3, 5-7) 100 x 8, 110 x 9" repeats each set over its group.
	ShapeOneToOne
	// ShapeOneToMany: "1-3) 100 x 8, 110 x 7, 120 x 6" spreads one group over the sets.
	ShapeOneToMany
)

func (s Shape) String() string {
	switch s {
	case ShapeManyToOne:
		return "many-to-one"
	case ShapeOneToOne:
		return "one-to-one"
	case ShapeOneToMany:
		return "one-to-many"
	default:
		return "none"
	}
}

// Classify picks the cardinality shape for groups and raw sets. The checks
// run many-to-one, then one-to-one, then one-to-many; the first match wins.
func Classify(groups []OrderGroup, raw []models.Set) Shape {
	switch {
	case len(raw) == 1 && len(groups) >= 1:
		return ShapeManyToOne
	case len(groups) == len(raw):
		return ShapeOneToOne
	case len(groups) == 1 && len(groups[0]) == len(raw):
		return ShapeOneToMany
	default:
		return ShapeNone
	}
}

// Resolve assigns an order to every set according to the shape of groups
// against raw, and returns the flattened result.
func Resolve(groups []OrderGroup, raw []models.Set) ([]models.Set, error) {
	var out []models.Set
	switch Classify(groups, raw) {
	case ShapeManyToOne:
		for _, g := range groups {
			for _, o := range g {
				s := raw[0]
				s.Order = o
				out = append(out, s)
			}
		}
	case ShapeOneToOne:
		for i, g := range groups {
			for _, o := range g {
				s := raw[i]
				s.Order = o
				out = append(out, s)
			}
		}
	case ShapeOneToMany:
		for i, o := range groups[0] {
			s := raw[i]
			s.Order = o
			out = append(out, s)
		}
	default:
		return nil, fmt.Errorf("%w: %d order groups for %d sets", ErrSetNotationMismatch, len(groups), len(raw))
	}
	return out, nil
}
