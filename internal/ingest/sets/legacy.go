package sets

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/crank/internal/models"
)

var (
	// multiplierRe matches a repeated rep count: "3 (5)", "3(5)"
	multiplierRe = regexp.MustCompile(`^(\d+)\s*\((\d+)\)$`)

	// leadingIntRe finds the first number in a token, used to size jumps
	// between adjacent tokens.
	leadingIntRe = regexp.MustCompile(`\d+`)
)

// Partition is one run of legacy notation before expansion: the work values
// written before an "x" and the rep tokens written after it.
type Partition struct {
	Works []int
	Reps  []string
}

func (p Partition) String() string {
	works := make([]string, len(p.Works))
	for i, w := range p.Works {
		works[i] = strconv.Itoa(w)
	}
	return "(" + strings.Join(works, ", ") + ") x (" + strings.Join(p.Reps, ", ") + ")"
}

type partitionState int

const (
	collectingWork partitionState = iota
	collectingReps
)

// ParseLegacy parses free-form notation without an order prefix, such as
// "20, 60 x 5, 80, 90 x 3". Returned sets have no order.
func ParseLegacy(text string) ([]models.Set, error) {
	parts, err := PartitionTokens(Tokenize(text))
	if err != nil {
		return nil, err
	}
	out, err := ExpandPartitions(parts)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSetsParsed, strings.TrimSpace(text))
	}
	return out, nil
}

// PartitionTokens groups a token stream into work/rep runs.
//
// Tokens before the first "x" are work values. After an "x" tokens collect as
// reps until the next "x", at which point the rep buffer is split into the
// reps of the open run and the work values of the next one. At the end of
// input every buffered token is a rep. A stream with no "x" at all is
// bodyweight work: every token is a rep at work 0.
func PartitionTokens(tokens iter.Seq[string]) ([]Partition, error) {
	var (
		parts []Partition
		works []string
		reps  []string
		state = collectingWork
	)
	for tok := range tokens {
		if tok != Separator {
			if state == collectingWork {
				works = append(works, tok)
			} else {
				reps = append(reps, tok)
			}
			continue
		}
		switch state {
		case collectingWork:
			if len(works) == 0 {
				return nil, fmt.Errorf("%w: %q with no work before it", ErrAmbiguousPartition, Separator)
			}
			state = collectingReps
		case collectingReps:
			cur, next, err := splitRun(works, reps)
			if err != nil {
				return nil, err
			}
			p, err := newPartition(works, cur)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
			works, reps = next, nil
		}
	}

	switch {
	case state == collectingReps:
		if len(reps) == 0 {
			return nil, fmt.Errorf("%w: work %v has no reps", ErrAmbiguousPartition, works)
		}
		p, err := newPartition(works, reps)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	case len(works) > 0:
		parts = append(parts, Partition{Works: []int{0}, Reps: works})
	}
	return parts, nil
}

// splitRun divides the tokens between two "x" separators into the reps of
// the open run and the work values of the next run. With several work values
// only one rep may follow, so the first token is the rep. With a single work
// value the split falls at the largest jump between adjacent values, and the
// next run must consist of plain integers.
func splitRun(works, between []string) (cur, next []string, err error) {
	if len(between) < 2 {
		return nil, nil, fmt.Errorf("%w: cannot tell reps from work in %v", ErrAmbiguousPartition, between)
	}
	if len(works) > 1 {
		return between[:1], between[1:], nil
	}
	best, bestJump := -1, -1
	for k := len(between) - 1; k >= 1; k-- {
		if !isPlainInt(between[k]) {
			break
		}
		jump := abs(tokenValue(between[k]) - tokenValue(between[k-1]))
		if jump >= bestJump {
			best, bestJump = k, jump
		}
	}
	if best < 0 {
		return nil, nil, fmt.Errorf("%w: no work value before %q in %v", ErrAmbiguousPartition, Separator, between)
	}
	return between[:best], between[best:], nil
}

func newPartition(works, reps []string) (Partition, error) {
	p := Partition{Works: make([]int, 0, len(works)), Reps: reps}
	for _, w := range works {
		n, err := strconv.Atoi(w)
		if err != nil || n < 0 {
			return Partition{}, fmt.Errorf("%w: %q", ErrUnrecognizedWorkToken, w)
		}
		p.Works = append(p.Works, n)
	}
	return p, nil
}

// ExpandPartitions applies the shorthand rules to each run: one work value
// spreads over several rep tokens, one rep token spreads over several work
// values. Several of each is ambiguous.
func ExpandPartitions(parts []Partition) ([]models.Set, error) {
	var out []models.Set
	for _, p := range parts {
		switch {
		case len(p.Works) == 1 && len(p.Reps) >= 1:
			for _, tok := range p.Reps {
				expanded, err := ExpandRep(p.Works[0], tok)
				if err != nil {
					return nil, err
				}
				out = append(out, expanded...)
			}
		case len(p.Works) > 1 && len(p.Reps) == 1:
			for _, w := range p.Works {
				expanded, err := ExpandRep(w, p.Reps[0])
				if err != nil {
					return nil, err
				}
				out = append(out, expanded...)
			}
		default:
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousPartition, p)
		}
	}
	return out, nil
}

// ExpandRep turns one rep token into sets at work:
//
//	"8"      one set
//	"10/5/3" rest-pause, one set per piece
//	"35|30"  unilateral, one set per side
//	"3 (5)"  five sets of 3
func ExpandRep(work int, tok string) ([]models.Set, error) {
	if n, ok := positiveInt(tok); ok {
		return []models.Set{{Work: work, Reps: n}}, nil
	}
	if strings.ContainsAny(tok, "/|") {
		pieces := strings.FieldsFunc(tok, func(r rune) bool { return r == '/' || r == '|' })
		if len(pieces) < 2 {
			return nil, fmt.Errorf("%w: %q", ErrUnrecognizedRepToken, tok)
		}
		out := make([]models.Set, 0, len(pieces))
		for _, piece := range pieces {
			n, ok := positiveInt(strings.TrimSpace(piece))
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnrecognizedRepToken, tok)
			}
			out = append(out, models.Set{Work: work, Reps: n})
		}
		return out, nil
	}
	if m := multiplierRe.FindStringSubmatch(tok); m != nil {
		reps, _ := strconv.Atoi(m[1])
		times, _ := strconv.Atoi(m[2])
		if reps <= 0 || times <= 0 || times > MaxOrder {
			return nil, fmt.Errorf("%w: %q", ErrUnrecognizedRepToken, tok)
		}
		out := make([]models.Set, times)
		for i := range out {
			out[i] = models.Set{Work: work, Reps: reps}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedRepToken, tok)
}

func positiveInt(tok string) (int, bool) {
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func isPlainInt(tok string) bool {
	_, err := strconv.Atoi(tok)
	return err == nil
}

func tokenValue(tok string) int {
	n, _ := strconv.Atoi(leadingIntRe.FindString(tok))
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
