// Package sets parses the set notation of a workout logbook.
//
// Two notations are understood. Ordered notation names the set positions
// explicitly:
//
//	line       := order_spec ")" ws? body
//	order_spec := piece ("," ws? piece)*
//	piece      := INT | INT "-" INT
//	body       := set ("," ws? set)*
//	set        := ("[" INT "]" ws?)? (INT ws? "x" ws?)? INT
//
// Legacy notation is free text such as "20, 60 x 5, 80, 90 x 3" where runs of
// work values and rep values are told apart heuristically. Rep tokens may use
// rest-pause ("10/5/3"), unilateral ("35|30") or multiplier ("3 (5)") forms.
package sets

import (
	"errors"

	"github.com/claude/crank/internal/models"
)

// ParseOrdered parses one line of ordered notation, e.g. "1-3, 5-7) 100 x 8, [60] 110 x 7".
func ParseOrdered(line string) ([]models.Set, error) {
	groups, body, err := ParseOrdering(line)
	if err != nil {
		return nil, err
	}
	raw, err := ParseBody(body)
	if err != nil {
		return nil, err
	}
	return Resolve(groups, raw)
}

// Parse tries ordered notation first and falls back to legacy notation only
// when the line has no order prefix. Any failure is returned as a
// *ParseError holding text unchanged.
func Parse(text string) ([]models.Set, error) {
	out, err := ParseOrdered(text)
	if errors.Is(err, ErrOrderingSyntax) {
		out, err = ParseLegacy(text)
	}
	if err != nil {
		return nil, &ParseError{Raw: text, Err: err}
	}
	return out, nil
}

// Number gives every set without an order the next free position, in
// emission order, continuing after the highest order already present. It is
// applied to legacy sets when a logbook is upgraded; the input is not modified.
func Number(in []models.Set) []models.Set {
	if len(in) == 0 {
		return in
	}
	next := 1
	for _, s := range in {
		if s.Order >= next {
			next = s.Order + 1
		}
	}
	out := make([]models.Set, len(in))
	for i, s := range in {
		if s.Order <= 0 {
			s.Order = next
			next++
		}
		out[i] = s
	}
	return out
}

// Kind names the error kind of a set-notation failure for reports.
func Kind(err error) string {
	for _, k := range []struct {
		err  error
		name string
	}{
		{ErrOrderingSyntax, "ordering syntax"},
		{ErrNoSetsParsed, "no sets"},
		{ErrSetNotationMismatch, "notation mismatch"},
		{ErrAmbiguousPartition, "ambiguous partition"},
		{ErrUnrecognizedRepToken, "unrecognized reps"},
		{ErrUnrecognizedWorkToken, "unrecognized work"},
	} {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
