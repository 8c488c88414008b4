package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the layout workout headers are written in.
const TimestampLayout = "2006 Jan 02 @ 1504"

// CommentTag is the key free-text tag lines are stored under.
const CommentTag = "comment"

// workoutNamespace seeds deterministic workout IDs so re-parsing the same
// logbook yields the same identifiers.
var workoutNamespace = uuid.MustParse("6f1c3a52-3f0e-4a4e-9a5b-2d7c1e0b8f41")

// Tags holds "- key: value" annotations on a workout or exercise.
type Tags map[string]string

// Add stores a tag. Repeated comments are joined rather than overwritten.
func (t Tags) Add(key, value string) {
	if prev, ok := t[key]; ok && key == CommentTag && prev != "" {
		t[key] = prev + "; " + value
		return
	}
	t[key] = value
}

// Keys returns the tag keys in a stable order: comment first, then alphabetical.
func (t Tags) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == CommentTag || keys[j] == CommentTag {
			return keys[i] == CommentTag && keys[j] != CommentTag
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Exercise is one named movement within a workout.
type Exercise struct {
	Name string `json:"name"`
	Tags Tags   `json:"tags,omitempty"`
	Sets []Set  `json:"sets,omitempty"`
	// RawSets is set notation that failed to parse, kept verbatim until a
	// later re-parse succeeds.
	RawSets string `json:"raw_sets,omitempty"`
}

// Pending reports whether the exercise still carries unparsed set notation.
func (e *Exercise) Pending() bool {
	return e.RawSets != ""
}

// Ordered reports whether every set carries an explicit order.
func (e *Exercise) Ordered() bool {
	for _, s := range e.Sets {
		if s.Order <= 0 {
			return false
		}
	}
	return true
}

// Workout is one dated block of a logbook.
type Workout struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	// RawTimestamp holds a header line that could not be parsed as a date.
	RawTimestamp string     `json:"raw_timestamp,omitempty"`
	Tags         Tags       `json:"tags,omitempty"`
	Exercises    []Exercise `json:"exercises,omitempty"`
	// Raw holds lines that could not be attributed to an exercise.
	Raw []string `json:"raw,omitempty"`
}

// NewWorkoutID derives a stable ID from the workout's header line.
func NewWorkoutID(header string) uuid.UUID {
	return uuid.NewSHA1(workoutNamespace, []byte(header))
}

// Dated reports whether the workout has a parsed timestamp.
func (w *Workout) Dated() bool {
	return !w.Timestamp.IsZero()
}

// Header returns the first line of the workout's .wkt rendering.
func (w *Workout) Header() string {
	if w.Dated() {
		return w.Timestamp.Format(TimestampLayout)
	}
	return w.RawTimestamp
}

// Less sorts workouts by timestamp. Undated workouts sort after dated ones
// and compare equal among themselves.
func (w *Workout) Less(o *Workout) bool {
	switch {
	case w.Dated() && o.Dated():
		return w.Timestamp.Before(o.Timestamp)
	case w.Dated():
		return true
	default:
		return false
	}
}

// SameEntry reports whether two workouts occupy the same slot in a collection.
func (w *Workout) SameEntry(o *Workout) bool {
	if w.Dated() || o.Dated() {
		return w.Timestamp.Equal(o.Timestamp)
	}
	return w.RawTimestamp == o.RawTimestamp
}

// PendingCount returns the number of exercises with unparsed set notation.
func (w *Workout) PendingCount() int {
	n := 0
	for i := range w.Exercises {
		if w.Exercises[i].Pending() {
			n++
		}
	}
	return n
}

// SetCount returns the total number of parsed sets.
func (w *Workout) SetCount() int {
	n := 0
	for i := range w.Exercises {
		n += len(w.Exercises[i].Sets)
	}
	return n
}
