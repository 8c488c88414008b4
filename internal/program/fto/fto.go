// Package fto plans weights for Jim Wendler's 5/3/1 program: three working
// weeks at rising percentages of a training max, each day preceded by three
// warm-up sets.
package fto

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/claude/crank/internal/models"
)

// ErrWeek is returned for a training week outside 1-3.
var ErrWeek = errors.New("week must be 1, 2 or 3")

// Unit is a unit of mass.
type Unit string

const (
	Lbs Unit = "lbs"
	Kgs Unit = "kgs"
)

// ParseUnit accepts the common spellings of pounds and kilograms.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lb", "lbs", "pound", "pounds":
		return Lbs, nil
	case "kg", "kgs", "kilo", "kilos", "kilogram", "kilograms":
		return Kgs, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// base is the plate increment weights are rounded to.
func (u Unit) base() float64 {
	if u == Kgs {
		return 1
	}
	return 5
}

// Week is the prescription for one training week.
type Week struct {
	Percent float64
	Reps    [3]int
}

// Weeks is indexed by training week; index 0 is unused.
var Weeks = [4]Week{
	{},
	{Percent: 0.85, Reps: [3]int{5, 5, 10}},
	{Percent: 0.90, Reps: [3]int{3, 3, 8}},
	{Percent: 0.95, Reps: [3]int{5, 3, 5}},
}

var (
	warmupPercents = [3]float64{0.4, 0.5, 0.6}
	warmupReps     = [3]int{5, 5, 3}
	// working sets step up to the week's percent
	workingSteps = [3]float64{0.2, 0.1, 0}
)

func checkWeek(week int) error {
	if week < 1 || week > 3 {
		return fmt.Errorf("%w: got %d", ErrWeek, week)
	}
	return nil
}

// MRound rounds x to the nearest plate increment of u, halves to even.
func MRound(x float64, u Unit) int {
	b := u.base()
	return int(b * math.RoundToEven(x/b))
}

// MaxFromPrevious recovers the training max from the top weight used in the
// previous week. Week 1 follows week 3 and adds increment for the new cycle.
// With smooth the result is rounded to the plate increment.
func MaxFromPrevious(prev float64, week int, increment float64, u Unit, smooth bool) (float64, error) {
	if err := checkWeek(week); err != nil {
		return 0, err
	}
	last := week - 1
	if last == 0 {
		last = 3
	}
	tm := prev / Weeks[last].Percent
	if week == 1 {
		tm += increment
	}
	if smooth {
		tm = float64(MRound(tm, u))
	}
	return tm, nil
}

// WarmupWeights returns the unrounded warm-up weights for a training max.
func WarmupWeights(trainingMax float64) []float64 {
	out := make([]float64, len(warmupPercents))
	for i, p := range warmupPercents {
		out[i] = trainingMax * p
	}
	return out
}

// BuildSets returns the day's six weights, warm-ups first, rounded to u.
func BuildSets(trainingMax float64, week int, u Unit) ([]int, error) {
	if err := checkWeek(week); err != nil {
		return nil, err
	}
	weights := WarmupWeights(trainingMax)
	for _, step := range workingSteps {
		weights = append(weights, trainingMax*(Weeks[week].Percent-step))
	}
	out := make([]int, len(weights))
	for i, w := range weights {
		out[i] = MRound(w, u)
	}
	return out, nil
}

// ZipSets pairs the day's weights with the week's reps as ordered sets.
func ZipSets(weights []int, week int) ([]models.Set, error) {
	if err := checkWeek(week); err != nil {
		return nil, err
	}
	reps := append(warmupReps[:], Weeks[week].Reps[:]...)
	n := min(len(weights), len(reps))
	out := make([]models.Set, n)
	for i := range n {
		out[i] = models.Set{Work: weights[i], Reps: reps[i], Order: i + 1}
	}
	return out, nil
}

// Plan builds the exercise for one 5/3/1 day.
func Plan(name string, trainingMax float64, week int, u Unit) (models.Exercise, error) {
	weights, err := BuildSets(trainingMax, week, u)
	if err != nil {
		return models.Exercise{}, err
	}
	sets, err := ZipSets(weights, week)
	if err != nil {
		return models.Exercise{}, err
	}
	return models.Exercise{
		Name: name,
		Tags: models.Tags{
			"training max": strconv.FormatFloat(trainingMax, 'f', -1, 64) + " " + string(u),
			"week":         strconv.Itoa(week),
		},
		Sets: sets,
	}, nil
}

// Maxes are the estimated one-rep maxes from a rep-max set.
type Maxes struct {
	Competition int
	Training    int
}

// MaxCalculator estimates maxes with Wendler's formula,
// weight*reps*0.0333 + weight, training at 90% of competition.
func MaxCalculator(weight float64, reps int, u Unit) Maxes {
	competition := MRound(weight*float64(reps)*0.0333+weight, u)
	return Maxes{
		Competition: competition,
		Training:    MRound(float64(competition)*0.9, u),
	}
}

const lbsPerKg = 2.20462

// LbsToKg converts weights to kilograms, subtracting sub from each (a bar, say).
func LbsToKg(weights []int, sub int) []int {
	out := make([]int, len(weights))
	for i, w := range weights {
		out[i] = int(math.RoundToEven(float64(w)/lbsPerKg)) - sub
	}
	return out
}

// KgToLbs converts weights to pounds, subtracting sub from each.
func KgToLbs(weights []int, sub int) []int {
	out := make([]int, len(weights))
	for i, w := range weights {
		out[i] = int(math.RoundToEven(float64(w)*lbsPerKg)) - sub
	}
	return out
}
