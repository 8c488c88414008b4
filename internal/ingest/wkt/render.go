package wkt

import (
	"io"
	"strconv"
	"strings"

	"github.com/claude/crank/internal/ingest/sets"
	"github.com/claude/crank/internal/models"
)

// Render writes workouts back out as a logbook, one block per workout.
func Render(w io.Writer, workouts []models.Workout) error {
	for i := range workouts {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, RenderWorkout(&workouts[i])); err != nil {
			return err
		}
	}
	return nil
}

// RenderWorkout returns the block for one workout, newline terminated.
func RenderWorkout(w *models.Workout) string {
	var b strings.Builder
	b.WriteString(w.Header())
	b.WriteByte('\n')
	writeTags(&b, w.Tags)
	for i := range w.Exercises {
		b.WriteString(RenderExercise(&w.Exercises[i]))
	}
	for _, line := range w.Raw {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderExercise returns the lines for one exercise. Parsed sets with an
// order are written as ordered notation, sets without one as legacy text on
// the name line, and pending notation is written back verbatim.
func RenderExercise(ex *models.Exercise) string {
	var ordered, unordered []models.Set
	for _, s := range ex.Sets {
		if s.Order > 0 {
			ordered = append(ordered, s)
		} else {
			unordered = append(unordered, s)
		}
	}
	var inline string
	var rawOrdered []string
	for _, line := range pendingLines(ex) {
		if sets.HasOrdering(line) {
			rawOrdered = append(rawOrdered, line)
		} else {
			inline = line
		}
	}
	if inline == "" && len(unordered) > 0 {
		inline = sets.FormatLegacy(unordered)
	}

	var b strings.Builder
	b.WriteString(ex.Name)
	b.WriteByte(':')
	if inline != "" {
		b.WriteByte(' ')
		b.WriteString(inline)
	}
	b.WriteByte('\n')
	writeTags(&b, ex.Tags)
	if len(ordered) > 0 {
		if line, err := sets.Format(ordered); err == nil {
			b.WriteString(line)
			b.WriteByte('\n')
		} else {
			// duplicate orders cannot share a line
			for _, s := range ordered {
				b.WriteString(strconv.Itoa(s.Order) + ") " + s.String() + "\n")
			}
		}
	}
	for _, line := range rawOrdered {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func pendingLines(ex *models.Exercise) []string {
	if !ex.Pending() {
		return nil
	}
	return strings.Split(ex.RawSets, "\n")
}

func writeTags(b *strings.Builder, tags models.Tags) {
	for _, k := range tags.Keys() {
		if k == models.CommentTag {
			b.WriteString("- " + tags[k] + "\n")
			continue
		}
		b.WriteString("- " + k + ": " + tags[k] + "\n")
	}
}
