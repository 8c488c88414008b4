package sets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/crank/internal/models"
)

// setRe matches one set of an ordered body: "[60] 110 x 7", "110x7", "8"
var setRe = regexp.MustCompile(`(?:\[(\d+)\])?\s*(?:(\d+)\s*x\s*)?(\d+)`)

// ParseBody scans an ordered-notation body for sets, one per match, in
// textual order. Orders are left at zero. Shorthand is not expanded here:
// each match stands alone.
func ParseBody(body string) ([]models.Set, error) {
	matches := setRe.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSetsParsed, strings.TrimSpace(body))
	}
	out := make([]models.Set, 0, len(matches))
	for _, m := range matches {
		text := strings.TrimSpace(body[m[0]:m[1]])
		// a rest with nothing after it backtracks into the reps group
		if m[6] > 0 && body[m[6]-1] == '[' {
			return nil, fmt.Errorf("%w: set %q has no reps", ErrNoSetsParsed, text)
		}
		var s models.Set
		var err error
		if s.Rest, err = group(body, m[2], m[3]); err != nil {
			return nil, fmt.Errorf("%w: set %q: %w", ErrNoSetsParsed, text, err)
		}
		if s.Work, err = group(body, m[4], m[5]); err != nil {
			return nil, fmt.Errorf("%w: set %q: %w", ErrNoSetsParsed, text, err)
		}
		if s.Reps, err = group(body, m[6], m[7]); err != nil {
			return nil, fmt.Errorf("%w: set %q: %w", ErrNoSetsParsed, text, err)
		}
		if s.Reps <= 0 {
			return nil, fmt.Errorf("%w: set %q has no reps", ErrNoSetsParsed, text)
		}
		out = append(out, s)
	}
	return out, nil
}

// group converts an optional capture; a missing group is zero.
func group(s string, start, end int) (int, error) {
	if start < 0 {
		return 0, nil
	}
	return strconv.Atoi(s[start:end])
}
