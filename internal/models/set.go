package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Set is one discrete unit of exercise work.
//
// Order is the 1-based position of the set within its exercise. Sets parsed
// from legacy notation carry Order 0 until they are numbered.
type Set struct {
	Work  int `json:"work,omitempty"`
	Reps  int `json:"reps,omitempty"`
	Rest  int `json:"rest,omitempty"`
	Order int `json:"order,omitempty"`
}

// Equal reports whether two sets have the same order, work, reps and rest.
func (s Set) Equal(o Set) bool {
	return s.Order == o.Order && s.Work == o.Work && s.Reps == o.Reps && s.Rest == o.Rest
}

// Less orders sets by their position in the exercise. Comparing sets from
// different exercises has no meaning.
func (s Set) Less(o Set) bool {
	return s.Order < o.Order
}

// String renders the set body: "[rest] work x reps", dropping zero rest and work.
// "[30] 114 x 8", "114 x 8", "8"
func (s Set) String() string {
	var b strings.Builder
	if s.Rest != 0 {
		b.WriteString("[" + strconv.Itoa(s.Rest) + "] ")
	}
	if s.Work != 0 {
		b.WriteString(strconv.Itoa(s.Work) + " x ")
	}
	b.WriteString(strconv.Itoa(s.Reps))
	return b.String()
}

// GoString is used by %#v in test failure output.
func (s Set) GoString() string {
	return fmt.Sprintf("Set(work=%d, reps=%d, rest=%d, order=%d)", s.Work, s.Reps, s.Rest, s.Order)
}
