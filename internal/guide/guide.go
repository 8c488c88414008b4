// Package guide walks the user through set notation the parser could not
// read, offering an estimated partition, a rewrite, or a token-by-token
// classification of work and reps.
package guide

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/claude/crank/internal/ingest/sets"
	"github.com/claude/crank/internal/models"
	"github.com/claude/crank/internal/storage"
)

// Outcome is what happened to one pending exercise.
type Outcome int

const (
	Skipped Outcome = iota
	Repaired
	Partial
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Repaired:
		return "repaired"
	case Partial:
		return "partially repaired"
	case Dropped:
		return "dropped"
	}
	return "skipped"
}

// Stats counts outcomes of a repair session.
type Stats struct {
	Repaired int
	Partial  int
	Skipped  int
	Dropped  int
}

// Guide repairs pending notation in a store.
type Guide struct {
	store *storage.Store
	p     *Prompter
	log   *slog.Logger
}

// New creates a Guide.
func New(store *storage.Store, p *Prompter, log *slog.Logger) *Guide {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Guide{store: store, p: p, log: log}
}

// Review lists every exercise with unparsed notation and returns the count.
func (g *Guide) Review() int {
	pending := g.store.Pending()
	for _, item := range pending {
		g.p.Printf("%s %s: %s\n",
			g.p.style.Muted.Render(item.Header),
			g.p.style.Name.Render(item.Exercise),
			g.p.style.Raw.Render(strings.ReplaceAll(item.Raw, "\n", " | ")))
	}
	g.p.Printf("%d exercises with unparsed set notation\n", len(pending))
	return len(pending)
}

// Fix mediates every pending exercise in turn, saving the store after each
// change so an aborted session keeps its progress.
func (g *Guide) Fix(ctx context.Context) (Stats, error) {
	var stats Stats
	dropped := map[uuid.UUID][]int{}
	for _, item := range g.store.Pending() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		// earlier drops in the same workout shift the index down
		for _, i := range dropped[item.WorkoutID] {
			if i < item.Index {
				item.Index--
			}
		}

		outcome, err := g.Mediate(item)
		if err != nil {
			return stats, err
		}
		g.log.Info("pending notation handled", "workout", item.Header, "exercise", item.Exercise, "outcome", outcome)
		switch outcome {
		case Skipped:
			stats.Skipped++
			continue
		case Repaired:
			stats.Repaired++
		case Partial:
			stats.Partial++
		case Dropped:
			stats.Dropped++
			dropped[item.WorkoutID] = append(dropped[item.WorkoutID], item.Index)
		}
		if err := g.store.Save(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

type action int

const (
	keepLine action = iota
	useSets
	dropExercise
)

// Mediate asks how to handle each pending line of one exercise and applies
// the answers to the store.
func (g *Guide) Mediate(item storage.Pending) (Outcome, error) {
	w, err := g.store.Workout(item.WorkoutID)
	if err != nil {
		return Skipped, err
	}
	if item.Index >= len(w.Exercises) {
		return Skipped, fmt.Errorf("workout %s exercise %d: %w", item.Header, item.Index, storage.ErrNotFound)
	}
	ex := w.Exercises[item.Index]

	var still []string
	fixed := 0
	for _, line := range strings.Split(ex.RawSets, "\n") {
		parsed, act, err := g.mediateLine(ex.Name, line)
		if err != nil {
			return Skipped, err
		}
		switch act {
		case dropExercise:
			if err := g.store.RemoveExercise(item.WorkoutID, item.Index); err != nil {
				return Skipped, err
			}
			return Dropped, nil
		case keepLine:
			still = append(still, line)
		case useSets:
			ex.Sets = append(ex.Sets, parsed...)
			fixed++
		}
	}
	if fixed == 0 {
		return Skipped, nil
	}

	ex.RawSets = strings.Join(still, "\n")
	ex.Sets = sets.Number(ex.Sets)
	if err := g.store.SetExercise(item.WorkoutID, item.Index, ex); err != nil {
		return Skipped, err
	}
	if len(still) > 0 {
		return Partial, nil
	}
	return Repaired, nil
}

func (g *Guide) mediateLine(name, line string) ([]models.Set, action, error) {
	current := line
	for {
		g.p.Printf("%s| Original set notation: %s\n", g.p.style.Name.Render(name), g.p.style.Raw.Render(current))
		choice, err := g.p.ReadUntilValid("Attempt, Rewrite, Step-through, sKip, or Drop?", "a", "r", "s", "k", "d")
		if err != nil {
			return nil, keepLine, err
		}

		switch choice {
		case "a":
			out, ok, err := g.attempt(current)
			if err != nil || ok {
				return out, useSets, err
			}
		case "r":
			current, err = g.p.ReadUntilFunc("Corrected notation: ", notEmpty)
			if err != nil {
				return nil, keepLine, err
			}
			out, err := sets.Parse(current)
			if err != nil {
				g.p.Printf("%s\n", g.p.style.Error.Render("still unreadable: "+sets.Kind(err)))
				continue
			}
			g.p.Printf("Parsed sets:\n%s", listSets(out))
			ok, err := g.p.Confirm("Does this look good?")
			if err != nil || ok {
				return out, useSets, err
			}
		case "s":
			out, err := g.stepThrough(current)
			if err == nil {
				return out, useSets, nil
			}
			if errors.Is(err, ErrAborted) {
				return nil, keepLine, err
			}
			g.p.Printf("%s\n", g.p.style.Error.Render(err.Error()))
		case "k":
			return nil, keepLine, nil
		case "d":
			yes, err := g.p.Confirm("Delete the exercise; are you sure?")
			if err != nil {
				return nil, keepLine, err
			}
			if yes {
				return nil, dropExercise, nil
			}
		}
	}
}

// attempt shows a rough partition of the notation and applies it on
// confirmation. Unlike the parser it never splits runs: the token after
// each "x" is the only rep, and anything left at the end is ignored.
func (g *Guide) attempt(line string) ([]models.Set, bool, error) {
	parts, leftover, err := roughPartition(notationBody(line))
	if err == nil && len(parts) == 0 {
		err = fmt.Errorf("no work x reps pairs found")
	}
	if err != nil {
		g.p.Printf("%s\n", g.p.style.Error.Render("cannot partition: "+err.Error()))
		return nil, false, nil
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("\t" + p.String() + "\n")
	}
	g.p.Printf("Estimated set partitions:\n%s", b.String())
	if len(leftover) > 0 {
		g.p.Printf("%s\n", g.p.style.Muted.Render("ignored: "+strings.Join(leftover, ", ")))
	}

	out, err := sets.ExpandPartitions(parts)
	if err != nil {
		g.p.Printf("%s\n", g.p.style.Error.Render(err.Error()))
		return nil, false, nil
	}
	ok, err := g.p.Confirm("Does this look good?")
	if err != nil || !ok {
		return nil, false, err
	}
	return out, true, nil
}

func roughPartition(text string) ([]sets.Partition, []string, error) {
	var parts []sets.Partition
	var works []int
	var leftover []string
	prev := ""
	for tok := range sets.Tokenize(text) {
		switch {
		case tok == sets.Separator:
		case prev == sets.Separator:
			parts = append(parts, sets.Partition{Works: works, Reps: []string{tok}})
			works, leftover = nil, nil
		default:
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, nil, fmt.Errorf("%q is not a work value", tok)
			}
			works = append(works, n)
			leftover = append(leftover, tok)
		}
		prev = tok
	}
	return parts, leftover, nil
}

// stepThrough asks whether each token is work or reps and builds the
// partitions from the answers.
func (g *Guide) stepThrough(line string) ([]models.Set, error) {
	var parts []sets.Partition
	var works []int
	var reps []string
	flush := func() {
		if len(works) == 0 && len(reps) == 0 {
			return
		}
		if len(works) == 0 {
			works = []int{0}
		}
		parts = append(parts, sets.Partition{Works: works, Reps: reps})
		works, reps = nil, nil
	}

	g.p.Printf("Original: %s\n", line)
	last := ""
	for tok := range sets.Tokenize(notationBody(line)) {
		if tok == sets.Separator {
			g.p.Printf("%s\n", g.p.style.Muted.Render("saw 'x'"))
			continue
		}
		for {
			wr, err := g.p.ReadUntilValid("("+g.p.style.Token.Render(tok)+") Work or Reps?", "w", "r")
			if err != nil {
				return nil, err
			}
			if wr == "w" {
				n, err := strconv.Atoi(tok)
				if err != nil {
					g.p.Printf("%s\n", g.p.style.Error.Render(tok+" is not a number"))
					continue
				}
				if last == "r" {
					flush()
				}
				works = append(works, n)
				last = wr
				break
			}
			if _, err := sets.ExpandRep(1, tok); err == nil {
				reps = append(reps, tok)
			} else {
				answer, err := g.p.ReadUntilFunc("Please space-separate the reps: ", repList)
				if err != nil {
					return nil, err
				}
				reps = append(reps, strings.Fields(answer)...)
			}
			last = wr
			break
		}
	}
	flush()
	return sets.ExpandPartitions(parts)
}

// notationBody drops an ordering prefix so the rest can be read as legacy text.
func notationBody(line string) string {
	if _, body, err := sets.ParseOrdering(line); err == nil {
		return body
	}
	return line
}

func listSets(in []models.Set) string {
	var b strings.Builder
	for _, s := range in {
		b.WriteString("\t" + s.String() + "\n")
	}
	return b.String()
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("enter some set notation")
	}
	return nil
}

// repList accepts space-separated positive rep counts, or nothing.
func repList(s string) error {
	for _, f := range strings.Fields(s) {
		if n, err := strconv.Atoi(f); err != nil || n <= 0 {
			return fmt.Errorf("%q is not a rep count", f)
		}
	}
	return nil
}
