package sets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// orderingRe matches a leading order spec: "  1-3, 5) "
	orderingRe = regexp.MustCompile(`^\s*([\d\s,-]+)\)\s*`)

	// orderRangeRe matches one inclusive range piece: "4-6"
	orderRangeRe = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
)

// MaxOrder bounds order values so a typo like "1-10000)" cannot expand into
// an absurd number of sets.
const MaxOrder = 999

// OrderGroup is the run of set positions named by one order-spec piece:
// "4-6" is {4, 5, 6}, "1" is {1}.
type OrderGroup []int

// HasOrdering reports whether line starts with an order spec.
func HasOrdering(line string) bool {
	return orderingRe.MatchString(line)
}

// ParseOrdering strips the order-spec prefix from line and returns its groups
// in textual order together with the remaining set body.
func ParseOrdering(line string) ([]OrderGroup, string, error) {
	m := orderingRe.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrOrderingSyntax, line)
	}
	spec := strings.Trim(line[m[2]:m[3]], ", \t")
	body := line[m[1]:]

	var groups []OrderGroup
	for _, piece := range strings.Split(spec, ",") {
		g, err := parseOrderPiece(strings.TrimSpace(piece))
		if err != nil {
			return nil, "", err
		}
		groups = append(groups, g)
	}
	return groups, body, nil
}

// parseOrderPiece parses "5" or "4-6". Ranges must ascend; descending ranges
// and zero positions are rejected rather than reinterpreted.
func parseOrderPiece(piece string) (OrderGroup, error) {
	if n, err := strconv.Atoi(piece); err == nil {
		if n < 1 || n > MaxOrder {
			return nil, fmt.Errorf("%w: order %d out of range", ErrOrderingSyntax, n)
		}
		return OrderGroup{n}, nil
	}
	m := orderRangeRe.FindStringSubmatch(piece)
	if m == nil {
		return nil, fmt.Errorf("%w: malformed order %q", ErrOrderingSyntax, piece)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if start < 1 || end > MaxOrder || end < start {
		return nil, fmt.Errorf("%w: invalid order range %q", ErrOrderingSyntax, piece)
	}
	g := make(OrderGroup, 0, end-start+1)
	for o := start; o <= end; o++ {
		g = append(g, o)
	}
	return g, nil
}
