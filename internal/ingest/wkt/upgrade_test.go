package wkt

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/claude/crank/internal/ingest/sets"
	"github.com/claude/crank/internal/models"
	"github.com/claude/crank/internal/storage"
)

// TestUpgradeRepairsAndNumbers verifies pending notation that now parses is
// moved into the set list, legacy sets get orders after the existing ones, and
// notation that still fails stays pending with its error reported.
func TestUpgradeRepairsAndNumbers(t *testing.T) {
	w := models.Workout{
		RawTimestamp: "2015-10-19 18:00",
		Exercises: []models.Exercise{
			{
				Name:    "Squat",
				Sets:    []models.Set{{Work: 100, Reps: 5, Order: 1}},
				RawSets: "60 x 8, 6",
			},
			{
				Name:    "Deadlift",
				RawSets: "20, 60, 80 x 5, 6\n1) 140 x 3",
			},
		},
	}
	var stats UpgradeStats
	err := NewUpgrader(nil).Upgrade(&w, &stats)

	if !errors.Is(err, sets.ErrAmbiguousPartition) {
		t.Errorf("error = %v, want ambiguous partition", err)
	}
	if n := len(multierr.Errors(err)); n != 1 {
		t.Errorf("got %d errors, want 1", n)
	}
	if !w.Dated() || w.RawTimestamp != "" {
		t.Errorf("timestamp not repaired: %v %q", w.Timestamp, w.RawTimestamp)
	}
	if w.ID != models.NewWorkoutID(w.Timestamp.Format(time.RFC3339)) {
		t.Error("ID not derived from the repaired timestamp")
	}

	wantSquat := []models.Set{
		{Work: 100, Reps: 5, Order: 1},
		{Work: 60, Reps: 8, Order: 2},
		{Work: 60, Reps: 6, Order: 3},
	}
	if diff := cmp.Diff(wantSquat, w.Exercises[0].Sets); diff != "" {
		t.Errorf("squat sets mismatch (-want +got):\n%s", diff)
	}
	if w.Exercises[0].Pending() {
		t.Errorf("squat still pending: %q", w.Exercises[0].RawSets)
	}

	dl := w.Exercises[1]
	if dl.RawSets != "20, 60, 80 x 5, 6" {
		t.Errorf("deadlift RawSets = %q", dl.RawSets)
	}
	if diff := cmp.Diff([]models.Set{{Work: 140, Reps: 3, Order: 1}}, dl.Sets); diff != "" {
		t.Errorf("deadlift sets mismatch (-want +got):\n%s", diff)
	}

	want := UpgradeStats{LinesRepaired: 2, LinesPending: 1, SetsNumbered: 2, TimestampsFixed: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

// TestUpgradeKeepsOrderedLinesOrdered verifies a pending line with an order
// prefix is not retried as legacy notation, and exercises without sets keep
// a nil set list.
func TestUpgradeKeepsOrderedLinesOrdered(t *testing.T) {
	w := models.Workout{
		Timestamp: time.Date(2015, time.October, 19, 18, 0, 0, 0, time.UTC),
		Exercises: []models.Exercise{{Name: "Row", RawSets: "5-3) 100 x 5"}},
	}
	err := NewUpgrader(nil).Upgrade(&w, nil)

	if !errors.Is(err, sets.ErrOrderingSyntax) {
		t.Errorf("error = %v, want ordering syntax", err)
	}
	if got := sets.RawNotation(err); got != "5-3) 100 x 5" {
		t.Errorf("RawNotation = %q", got)
	}
	row := w.Exercises[0]
	if row.RawSets != "5-3) 100 x 5" {
		t.Errorf("RawSets = %q", row.RawSets)
	}
	if row.Sets != nil {
		t.Errorf("Sets = %#v, want nil", row.Sets)
	}
}

// TestUpgradeIsIdempotent verifies a second upgrade changes nothing.
func TestUpgradeIsIdempotent(t *testing.T) {
	ws, _ := NewParser(nil).ParseString(strings.Join(testWorkoutLines, "\n"))
	u := NewUpgrader(nil)
	if _, err := u.UpgradeAll(ws); err != nil {
		t.Fatalf("UpgradeAll: %v", err)
	}
	before := RenderWorkout(&ws[0])
	stats, err := u.UpgradeAll(ws)
	if err != nil {
		t.Fatalf("UpgradeAll: %v", err)
	}
	if stats != (UpgradeStats{}) {
		t.Errorf("second upgrade changed %+v", stats)
	}
	if after := RenderWorkout(&ws[0]); after != before {
		t.Errorf("rendering changed:\n%s\nvs\n%s", before, after)
	}
}

// TestProviderIngest verifies a logbook is counted and stored, and that
// ingesting it again replaces rather than duplicates.
func TestProviderIngest(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "w.json"), nil)
	if err != nil {
		t.Fatal(err)
	}
	logbook := strings.Join(testWorkoutLines, "\n") + "\n\n2015 Oct 21 @ 1800\nRow: heavy\n"
	p := NewProvider(store, nil)

	res, err := p.Ingest(context.Background(), strings.NewReader(logbook))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.WorkoutsReceived != 2 || res.WorkoutsInserted != 2 {
		t.Errorf("result = %+v", res)
	}
	if res.ExercisesParsed != 5 || res.SetsParsed != 12 || res.RawSetsPending != 1 {
		t.Errorf("result = %+v", res)
	}

	res, err = p.Ingest(context.Background(), strings.NewReader(logbook))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.WorkoutsReplaced != 2 || store.Len() != 2 {
		t.Errorf("re-ingest result = %+v, stored %d", res, store.Len())
	}
}

// TestProviderDryRun verifies a provider without a store only counts.
func TestProviderDryRun(t *testing.T) {
	res, err := NewProvider(nil, nil).Ingest(context.Background(), strings.NewReader(strings.Join(testWorkoutLines, "\n")))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.WorkoutsReceived != 1 || res.WorkoutsInserted != 0 {
		t.Errorf("result = %+v", res)
	}
}

// TestProviderCanceled verifies ingestion stops on a canceled context.
func TestProviderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider(nil, nil).Ingest(ctx, strings.NewReader(strings.Join(testWorkoutLines, "\n")))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
