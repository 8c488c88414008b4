// Package ssp generates a pyramid rep scheme. Reps accumulate one per day,
// filling sets up to a per-set maximum, until the day's total reaches the
// apex. After that the total keeps growing while the number of sets shrinks:
// reps move from the last set onto the others in turn.
package ssp

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/claude/crank/internal/models"
)

// ErrDay is returned for a day outside the scheme.
var ErrDay = errors.New("day out of range")

// Scheme is a pyramid with SetMax reps per set during accumulation and Apex
// total reps at its peak.
type Scheme struct {
	SetMax int
	Apex   int
}

// Default is 10 reps per set peaking at 100.
var Default = Scheme{SetMax: 10, Apex: 100}

// Validate reports whether the scheme can be cranked.
func (s Scheme) Validate() error {
	if s.SetMax <= 0 || s.Apex <= 0 {
		return fmt.Errorf("set max %d and apex %d must be positive", s.SetMax, s.Apex)
	}
	if s.Apex%s.SetMax != 0 {
		return fmt.Errorf("apex %d is not a multiple of set max %d", s.Apex, s.SetMax)
	}
	return nil
}

// LastDay is the final day of the scheme.
func (s Scheme) LastDay() int {
	return 2*s.Apex - s.SetMax
}

// Day returns the reps of each set on the given day, 1 through LastDay.
func (s Scheme) Day(day int) ([]int, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if day <= s.Apex {
		return s.Accumulate(day)
	}
	return s.Aggregate(day)
}

// Accumulate returns the sets of an accumulation day: full sets of SetMax
// and a final partial set.
func (s Scheme) Accumulate(day int) ([]int, error) {
	if day < 1 || day > s.Apex {
		return nil, fmt.Errorf("%w: accumulation runs 1-%d, got %d", ErrDay, s.Apex, day)
	}
	sets := slices.Repeat([]int{s.SetMax}, day/s.SetMax)
	if rem := day % s.SetMax; rem != 0 {
		sets = append(sets, rem)
	}
	return sets, nil
}

// Aggregate returns the sets of an aggregation day. Starting from the apex
// day, each following day takes a rep off the last set, dropping it when
// empty, and adds one to the next set in rotation.
func (s Scheme) Aggregate(day int) ([]int, error) {
	if day < s.Apex || day > s.LastDay() {
		return nil, fmt.Errorf("%w: aggregation runs %d-%d, got %d", ErrDay, s.Apex, s.LastDay(), day)
	}
	sets := slices.Repeat([]int{s.SetMax}, s.Apex/s.SetMax)
	index := 0
	for range day - s.Apex {
		last := len(sets) - 1
		sets[last]--
		if sets[last] == 0 {
			sets = sets[:last]
		}
		if len(sets) == 0 {
			break
		}
		sets[index]++
		if n := len(sets) - 1; n > 0 {
			index = (index + 1) % n
		} else {
			index = 0
		}
	}
	return sets, nil
}

// Count is a rep count and how many sets use it.
type Count struct {
	Reps int
	Sets int
}

// Setify groups set reps into counts, highest reps first.
func Setify(reps []int) []Count {
	var out []Count
	for _, r := range reps {
		i := slices.IndexFunc(out, func(c Count) bool { return c.Reps == r })
		if i < 0 {
			out = append(out, Count{Reps: r, Sets: 1})
			continue
		}
		out[i].Sets++
	}
	slices.SortFunc(out, func(a, b Count) int { return b.Reps - a.Reps })
	return out
}

// Notation writes set reps in multiplier form, "12 (2), 11 (6), 10 (1)",
// which the logbook parser reads back as bodyweight sets.
func Notation(reps []int) string {
	parts := make([]string, 0, len(reps))
	for _, c := range Setify(reps) {
		parts = append(parts, strconv.Itoa(c.Reps)+" ("+strconv.Itoa(c.Sets)+")")
	}
	return strings.Join(parts, ", ")
}

// Sets turns set reps into ordered sets at the given work.
func Sets(reps []int, work int) []models.Set {
	out := make([]models.Set, len(reps))
	for i, r := range reps {
		out[i] = models.Set{Work: work, Reps: r, Order: i + 1}
	}
	return out
}
