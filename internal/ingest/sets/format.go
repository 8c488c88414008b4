package sets

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/claude/crank/internal/models"
)

// run is a stretch of consecutive orders sharing one set body.
type run struct {
	first, last int
	set         models.Set
}

func (r run) spec() string {
	if r.first == r.last {
		return strconv.Itoa(r.first)
	}
	return strconv.Itoa(r.first) + "-" + strconv.Itoa(r.last)
}

// Format writes sets as one line of ordered notation that ParseOrdered reads
// back to an equal list. Identical sets at consecutive orders collapse into a
// range. Every set needs a unique order in 1..MaxOrder and at least one rep.
func Format(in []models.Set) (string, error) {
	if len(in) == 0 {
		return "", fmt.Errorf("%w: no sets", ErrUnformattable)
	}
	sorted := slices.Clone(in)
	slices.SortStableFunc(sorted, func(a, b models.Set) int { return a.Order - b.Order })

	var runs []run
	for i, s := range sorted {
		if s.Order < 1 || s.Order > MaxOrder {
			return "", fmt.Errorf("%w: order %d", ErrUnformattable, s.Order)
		}
		if s.Reps <= 0 {
			return "", fmt.Errorf("%w: set %d has no reps", ErrUnformattable, s.Order)
		}
		if i > 0 && sorted[i-1].Order == s.Order {
			return "", fmt.Errorf("%w: duplicate order %d", ErrUnformattable, s.Order)
		}
		body := s
		body.Order = 0
		if n := len(runs); n > 0 && runs[n-1].last == s.Order-1 && runs[n-1].set == body {
			runs[n-1].last = s.Order
			continue
		}
		runs = append(runs, run{first: s.Order, last: s.Order, set: body})
	}

	var specs, bodies []string
	switch {
	case len(runs) == 1:
		specs = []string{runs[0].spec()}
		bodies = []string{runs[0].set.String()}
	case contiguousSingles(runs):
		specs = []string{run{first: runs[0].first, last: runs[len(runs)-1].last}.spec()}
		for _, r := range runs {
			bodies = append(bodies, r.set.String())
		}
	default:
		for _, r := range runs {
			specs = append(specs, r.spec())
			bodies = append(bodies, r.set.String())
		}
	}
	return strings.Join(specs, ", ") + ") " + strings.Join(bodies, ", "), nil
}

// contiguousSingles reports whether every run is one set long and the runs
// cover an unbroken stretch of orders, which one range can name.
func contiguousSingles(runs []run) bool {
	for i, r := range runs {
		if r.first != r.last {
			return false
		}
		if i > 0 && runs[i-1].last != r.first-1 {
			return false
		}
	}
	return true
}

// FormatLegacy writes sets as "work x reps" pairs, the form ParseLegacy reads
// back. Rest and order are not representable and are dropped.
func FormatLegacy(in []models.Set) string {
	parts := make([]string, len(in))
	for i, s := range in {
		parts[i] = strconv.Itoa(s.Work) + " x " + strconv.Itoa(s.Reps)
	}
	return strings.Join(parts, ", ")
}
