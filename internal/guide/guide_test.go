package guide

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/crank/internal/models"
	"github.com/claude/crank/internal/storage"
)

// newStore returns a store holding one workout with the given exercises.
func newStore(t *testing.T, exercises ...models.Exercise) (*storage.Store, models.Workout) {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "workouts.json"), nil)
	if err != nil {
		t.Fatal(err)
	}
	ts := time.Date(2015, time.October, 19, 18, 0, 0, 0, time.UTC)
	w := models.Workout{ID: models.NewWorkoutID(ts.Format(time.RFC3339)), Timestamp: ts, Exercises: exercises}
	s.Upsert(w)
	return s, w
}

func newGuide(s *storage.Store, input string) (*Guide, *bytes.Buffer) {
	var out bytes.Buffer
	return New(s, NewPrompter(strings.NewReader(input), &out), nil), &out
}

func exercises(t *testing.T, s *storage.Store, id models.Workout) []models.Exercise {
	t.Helper()
	w, err := s.Workout(id.ID)
	if err != nil {
		t.Fatal(err)
	}
	return w.Exercises
}

// TestReview verifies each pending exercise is listed with its notation.
func TestReview(t *testing.T) {
	s, _ := newStore(t,
		models.Exercise{Name: "Squat", Sets: []models.Set{{Work: 100, Reps: 5}}},
		models.Exercise{Name: "Deadlift", RawSets: "20, 60, 80 x 5, 6"},
		models.Exercise{Name: "Row", RawSets: "heavy\n1,2) 1, 2, 3"},
	)
	g, out := newGuide(s, "")
	if n := g.Review(); n != 2 {
		t.Errorf("Review = %d, want 2", n)
	}
	for _, want := range []string{"Deadlift: 20, 60, 80 x 5, 6", "Row: heavy | 1,2) 1, 2, 3", "2 exercises"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

// TestFixAttempt verifies an accepted estimate replaces the notation with
// numbered sets and is saved.
func TestFixAttempt(t *testing.T) {
	s, w := newStore(t, models.Exercise{Name: "Deadlift", RawSets: "20, 60, 80 x 5, 6"})
	g, out := newGuide(s, "a\ny\n")

	stats, err := g.Fix(context.Background())
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if stats.Repaired != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if !strings.Contains(out.String(), "ignored: 6") {
		t.Errorf("leftover token not reported:\n%s", out.String())
	}

	want := []models.Exercise{{
		Name: "Deadlift",
		Sets: []models.Set{
			{Work: 20, Reps: 5, Order: 1},
			{Work: 60, Reps: 5, Order: 2},
			{Work: 80, Reps: 5, Order: 3},
		},
	}}
	reopened, err := storage.Open(s.Path(), nil)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	if diff := cmp.Diff(want, exercises(t, reopened, w)); diff != "" {
		t.Errorf("saved exercise mismatch (-want +got):\n%s", diff)
	}
}

// TestFixRewrite verifies a corrected string is parsed and applied after
// confirmation, and an unreadable rewrite returns to the menu.
func TestFixRewrite(t *testing.T) {
	s, w := newStore(t, models.Exercise{Name: "Deadlift", RawSets: "20, 60, 80 x 5, 6"})
	input := strings.Join([]string{
		"r", "still, wrong x",
		"r", "20 x 5, 60 x 5, 80 x 5, 6",
		"y",
	}, "\n") + "\n"
	g, out := newGuide(s, input)

	if _, err := g.Fix(context.Background()); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if !strings.Contains(out.String(), "still unreadable") {
		t.Errorf("bad rewrite not reported:\n%s", out.String())
	}
	want := []models.Set{
		{Work: 20, Reps: 5, Order: 1},
		{Work: 60, Reps: 5, Order: 2},
		{Work: 80, Reps: 5, Order: 3},
		{Work: 80, Reps: 6, Order: 4},
	}
	got := exercises(t, s, w)[0]
	if diff := cmp.Diff(want, got.Sets); diff != "" {
		t.Errorf("sets mismatch (-want +got):\n%s", diff)
	}
	if got.Pending() {
		t.Errorf("still pending: %q", got.RawSets)
	}
}

// TestFixStepThrough verifies token-by-token answers build the sets, and
// an unreadable rep token can be replaced by typed reps.
func TestFixStepThrough(t *testing.T) {
	s, w := newStore(t, models.Exercise{Name: "Press", RawSets: "100 x 5, 5, 5 fast"})
	// 100 is work; three reps; "fast" is reps but must be retyped, here as nothing
	input := "s\nw\nr\nr\nr\nr\n\n"
	g, _ := newGuide(s, input)

	stats, err := g.Fix(context.Background())
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if stats.Repaired != 1 {
		t.Errorf("stats = %+v", stats)
	}
	want := []models.Set{
		{Work: 100, Reps: 5, Order: 1},
		{Work: 100, Reps: 5, Order: 2},
		{Work: 100, Reps: 5, Order: 3},
	}
	if diff := cmp.Diff(want, exercises(t, s, w)[0].Sets); diff != "" {
		t.Errorf("sets mismatch (-want +got):\n%s", diff)
	}
}

// TestFixStepThroughAmbiguous verifies answers that cannot be expanded are
// reported and the line can still be skipped.
func TestFixStepThroughAmbiguous(t *testing.T) {
	s, w := newStore(t, models.Exercise{Name: "Deadlift", RawSets: "20, 60, 80 x 5, 6"})
	input := "s\nw\nw\nw\nr\nr\nk\n"
	g, out := newGuide(s, input)

	stats, err := g.Fix(context.Background())
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if !strings.Contains(out.String(), "ambiguous") {
		t.Errorf("ambiguous partition not reported:\n%s", out.String())
	}
	if got := exercises(t, s, w)[0].RawSets; got != "20, 60, 80 x 5, 6" {
		t.Errorf("RawSets = %q", got)
	}
}

// TestFixDrop verifies a drop needs confirmation and later items in the same
// workout still resolve to the right exercise.
func TestFixDrop(t *testing.T) {
	s, w := newStore(t,
		models.Exercise{Name: "Deadlift", RawSets: "20, 60, 80 x 5, 6"},
		models.Exercise{Name: "Row", RawSets: "heavy"},
	)
	// refuse the first drop, confirm the second, then skip Row
	g, _ := newGuide(s, "d\nn\nd\ny\nk\n")

	stats, err := g.Fix(context.Background())
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if stats.Dropped != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	got := exercises(t, s, w)
	if len(got) != 1 || got[0].Name != "Row" {
		t.Errorf("exercises = %+v", got)
	}
}

// TestFixPartial verifies an exercise with several pending lines keeps the
// skipped ones.
func TestFixPartial(t *testing.T) {
	s, w := newStore(t, models.Exercise{Name: "Row", RawSets: "heavy\n1,2) 60 x 8, 70 x 8, 80 x 8"})
	g, _ := newGuide(s, "k\nr\n1-3) 60 x 8, 70 x 8, 80 x 8\ny\n")

	stats, err := g.Fix(context.Background())
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if stats.Partial != 1 {
		t.Errorf("stats = %+v", stats)
	}
	got := exercises(t, s, w)[0]
	if got.RawSets != "heavy" || len(got.Sets) != 3 {
		t.Errorf("exercise = %+v", got)
	}
}

// TestFixAbortsOnEOF verifies running out of input ends the session with
// ErrAborted and leaves the notation pending.
func TestFixAbortsOnEOF(t *testing.T) {
	s, _ := newStore(t, models.Exercise{Name: "Deadlift", RawSets: "20, 60, 80 x 5, 6"})
	g, _ := newGuide(s, "")

	if _, err := g.Fix(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("error = %v, want ErrAborted", err)
	}
	if n := len(s.Pending()); n != 1 {
		t.Errorf("pending = %d, want 1", n)
	}
}

// TestReadUntilValid verifies invalid answers are asked again and answers
// are matched case-insensitively.
func TestReadUntilValid(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("maybe\n Y \n"), &out)
	yes, err := p.Confirm("Sure?")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !yes {
		t.Error("Confirm = false, want true")
	}
	if n := strings.Count(out.String(), "Sure? [y/n]"); n != 2 {
		t.Errorf("prompted %d times, want 2", n)
	}
}
