package wkt

import (
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/claude/crank/internal/ingest/sets"
	"github.com/claude/crank/internal/models"
)

// UpgradeStats counts what an upgrade changed.
type UpgradeStats struct {
	LinesRepaired   int
	LinesPending    int
	SetsNumbered    int
	TimestampsFixed int
}

// Upgrader re-parses notation that an older parser could not read and brings
// parsed workouts up to the current form. Nothing is dropped: lines that still
// fail stay pending.
type Upgrader struct {
	log *slog.Logger
}

// NewUpgrader creates an Upgrader. A nil logger discards output.
func NewUpgrader(log *slog.Logger) *Upgrader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Upgrader{log: log}
}

// Upgrade updates w in place. The returned error combines every line that
// still fails to parse; w is usable either way.
func (u *Upgrader) Upgrade(w *models.Workout, stats *UpgradeStats) error {
	if stats == nil {
		stats = &UpgradeStats{}
	}
	var errs error
	if !w.Dated() && w.RawTimestamp != "" {
		if ts, err := ParseTimestamp(w.RawTimestamp); err == nil {
			u.log.Info("timestamp repaired", "raw", w.RawTimestamp, "timestamp", ts)
			w.Timestamp = ts
			w.RawTimestamp = ""
			w.ID = workoutID(w)
			stats.TimestampsFixed++
		} else {
			errs = multierr.Append(errs, err)
		}
	}

	for i := range w.Exercises {
		ex := &w.Exercises[i]
		if ex.Pending() {
			errs = multierr.Append(errs, u.reparse(ex, stats))
		}
		before := unordered(ex.Sets)
		ex.Sets = sets.Number(ex.Sets)
		stats.SetsNumbered += before
	}
	return errs
}

// UpgradeAll upgrades every workout, collecting failures across all of them.
func (u *Upgrader) UpgradeAll(workouts []models.Workout) (UpgradeStats, error) {
	var stats UpgradeStats
	var errs error
	for i := range workouts {
		if err := u.Upgrade(&workouts[i], &stats); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", workouts[i].Header(), err))
		}
	}
	u.log.Info("upgrade finished",
		"repaired", stats.LinesRepaired,
		"pending", stats.LinesPending,
		"numbered", stats.SetsNumbered,
		"timestamps", stats.TimestampsFixed,
	)
	return stats, errs
}

func (u *Upgrader) reparse(ex *models.Exercise, stats *UpgradeStats) error {
	var errs error
	var still []string
	for _, line := range strings.Split(ex.RawSets, "\n") {
		parsed, err := reparseLine(line)
		if err != nil {
			u.log.Warn("set notation still pending", "exercise", ex.Name, "notation", line, "kind", sets.Kind(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", ex.Name, err))
			still = append(still, line)
			stats.LinesPending++
			continue
		}
		ex.Sets = append(ex.Sets, parsed...)
		stats.LinesRepaired++
	}
	ex.RawSets = strings.Join(still, "\n")
	return errs
}

// reparseLine reads a line the way the logbook parser would: lines with an
// order prefix are ordered notation only.
func reparseLine(line string) ([]models.Set, error) {
	if !sets.HasOrdering(line) {
		return sets.Parse(line)
	}
	parsed, err := sets.ParseOrdered(line)
	if err != nil {
		return nil, &sets.ParseError{Raw: line, Err: err}
	}
	return parsed, nil
}

func unordered(in []models.Set) int {
	n := 0
	for _, s := range in {
		if s.Order <= 0 {
			n++
		}
	}
	return n
}
