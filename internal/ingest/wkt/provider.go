package wkt

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/crank/internal/ingest"
	"github.com/claude/crank/internal/storage"
)

// Provider ingests .wkt logbooks into a store.
type Provider struct {
	store  *storage.Store
	parser *Parser
	log    *slog.Logger
}

// NewProvider creates a new logbook ingest provider. With a nil store the
// provider only parses and counts.
func NewProvider(store *storage.Store, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Provider{store: store, parser: NewParser(log), log: log}
}

// Ingest parses a logbook and stores its workouts. Re-ingesting a workout
// replaces the stored copy so the store reflects the latest parser output.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	workouts, err := p.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing logbook: %w", err)
	}

	result := &ingest.Result{WorkoutsReceived: len(workouts)}
	for i := range workouts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		w := &workouts[i]
		result.ExercisesParsed += len(w.Exercises)
		result.SetsParsed += w.SetCount()
		result.RawSetsPending += w.PendingCount()
		p.log.Debug("workout parsed", "workout", Summary(w))

		if p.store == nil {
			continue
		}
		if p.store.Upsert(*w) {
			result.WorkoutsInserted++
		} else {
			result.WorkoutsReplaced++
		}
	}
	return result, nil
}
