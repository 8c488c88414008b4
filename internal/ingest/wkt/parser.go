// Package wkt reads and writes the plain-text workout logbook format:
//
//	2015 Oct 19 @ 1800
//	- coming off drill weekend
//	Swing, KB: 28 x 35
//	Squat:
//	- unit: kg
//	1-3) 100 x 5
//	4) [180] 120 x 3
//
// Workouts are separated by blank lines. Each starts with a timestamp, then
// optional tags, then exercises. An exercise is a "Name:" line carrying
// optional inline set notation, its own tags, and any ordered set lines.
package wkt

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/crank/internal/ingest/sets"
	"github.com/claude/crank/internal/models"
)

// Parser turns logbook text into workouts. Set notation that cannot be parsed
// is kept on the exercise verbatim rather than failing the workout.
type Parser struct {
	log *slog.Logger
}

// NewParser creates a Parser. A nil logger discards output.
func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Parser{log: log}
}

// Parse reads every workout in a logbook.
func (p *Parser) Parse(r io.Reader) ([]models.Workout, error) {
	blocks, err := Blocks(r)
	if err != nil {
		return nil, err
	}
	workouts := make([]models.Workout, 0, len(blocks))
	for _, block := range blocks {
		workouts = append(workouts, p.ParseBlock(block))
	}
	return workouts, nil
}

// ParseString is Parse over an in-memory logbook.
func (p *Parser) ParseString(s string) ([]models.Workout, error) {
	return p.Parse(strings.NewReader(s))
}

// ParseBlock builds one workout from its non-blank lines.
func (p *Parser) ParseBlock(lines []string) models.Workout {
	var w models.Workout
	if len(lines) == 0 {
		return w
	}
	header := lines[0]
	if ts, err := ParseTimestamp(header); err == nil {
		w.Timestamp = ts
	} else {
		p.log.Warn("keeping unparsed timestamp", "header", header)
		w.RawTimestamp = header
	}
	w.ID = workoutID(&w)

	w.Tags, lines = parseTags(lines[1:])
	for len(lines) > 0 {
		// Set lines with no exercise above them belong to nobody.
		if sets.HasOrdering(lines[0]) || isTag(lines[0]) {
			w.Raw = append(w.Raw, lines[0])
			lines = lines[1:]
			continue
		}
		var ex models.Exercise
		ex, lines = p.parseExercise(lines)
		w.Exercises = append(w.Exercises, ex)
	}
	return w
}

// parseExercise consumes a name line, its tags and its ordered set lines.
func (p *Parser) parseExercise(lines []string) (models.Exercise, []string) {
	name, inline, _ := strings.Cut(lines[0], ":")
	ex := models.Exercise{Name: strings.TrimSpace(name)}
	ex.Tags, lines = parseTags(lines[1:])

	var raw []string
	if inline = strings.TrimSpace(inline); inline != "" {
		parsed, err := sets.Parse(inline)
		if err != nil {
			p.log.Debug("set notation kept raw", "exercise", ex.Name, "notation", inline, "kind", sets.Kind(err))
			raw = append(raw, inline)
		}
		ex.Sets = append(ex.Sets, parsed...)
	}
	for len(lines) > 0 && sets.HasOrdering(lines[0]) {
		parsed, err := sets.ParseOrdered(lines[0])
		if err != nil {
			p.log.Debug("set notation kept raw", "exercise", ex.Name, "notation", lines[0], "kind", sets.Kind(err))
			raw = append(raw, lines[0])
		}
		ex.Sets = append(ex.Sets, parsed...)
		lines = lines[1:]
	}
	ex.RawSets = strings.Join(raw, "\n")
	return ex, lines
}

// workoutID derives the ID from the normalized timestamp when there is one,
// so differently written headers for the same moment share an ID.
func workoutID(w *models.Workout) uuid.UUID {
	if w.Dated() {
		return models.NewWorkoutID(w.Timestamp.Format(time.RFC3339))
	}
	return models.NewWorkoutID(w.RawTimestamp)
}

// Summary describes a parsed workout for log lines.
func Summary(w *models.Workout) string {
	return fmt.Sprintf("%s: %d exercises, %d sets, %d pending", w.Header(), len(w.Exercises), w.SetCount(), w.PendingCount())
}
