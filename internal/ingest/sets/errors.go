package sets

import (
	"errors"
	"strconv"
)

var (
	// ErrOrderingSyntax means the line has no valid "<orders>) " prefix.
	// Parse retries such lines as legacy notation.
	ErrOrderingSyntax = errors.New("no set ordering prefix")

	// ErrNoSetsParsed means the notation body yielded no sets.
	ErrNoSetsParsed = errors.New("no sets parsed")

	// ErrSetNotationMismatch means the order groups and the sets fit none of
	// the many-to-one, one-to-one or one-to-many shapes.
	ErrSetNotationMismatch = errors.New("set notation mismatch")

	// ErrAmbiguousPartition means a legacy run cannot be expanded without
	// guessing, e.g. several work values paired with several rep values.
	ErrAmbiguousPartition = errors.New("ambiguous work/reps partition")

	// ErrUnrecognizedRepToken means a rep token is not a plain integer,
	// rest-pause, unilateral or multiplier form.
	ErrUnrecognizedRepToken = errors.New("unrecognized rep token")

	// ErrUnrecognizedWorkToken means a legacy work value is not an integer.
	ErrUnrecognizedWorkToken = errors.New("unrecognized work token")

	// ErrUnformattable means a set list cannot be written as ordered notation.
	ErrUnformattable = errors.New("sets cannot be written as ordered notation")
)

// ParseError carries set notation that could not be parsed, verbatim, so the
// caller can keep it for later repair.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "parsing sets " + strconv.Quote(e.Raw) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RawNotation returns the original text of a failed parse, or "" if err is
// not a *ParseError.
func RawNotation(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Raw
	}
	return ""
}
