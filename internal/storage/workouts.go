package storage

import (
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/claude/crank/internal/models"
)

// Pending is one exercise whose set notation still needs repair.
type Pending struct {
	WorkoutID uuid.UUID
	Header    string
	Index     int
	Exercise  string
	Raw       string
}

// Upsert adds a workout, replacing any stored workout with the same
// timestamp. Returns true if the workout was new.
func (s *Store) Upsert(w models.Workout) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w = clone(w)
	for i := range s.doc.Workouts {
		if s.doc.Workouts[i].SameEntry(&w) {
			s.doc.Workouts[i] = w
			return false
		}
	}
	s.doc.Workouts = append(s.doc.Workouts, w)
	sortWorkouts(s.doc.Workouts)
	return true
}

// Workouts returns a copy of every stored workout, oldest first.
func (s *Store) Workouts() []models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Workout, len(s.doc.Workouts))
	for i, w := range s.doc.Workouts {
		out[i] = clone(w)
	}
	return out
}

// Len returns the number of stored workouts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doc.Workouts)
}

// Workout returns a copy of the workout with the given ID.
func (s *Store) Workout(id uuid.UUID) (models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.index(id)
	if err != nil {
		return models.Workout{}, err
	}
	return clone(s.doc.Workouts[i]), nil
}

// Update calls fn on every stored workout in order. Errors from fn do not
// stop the walk; they are combined into the returned error.
func (s *Store) Update(fn func(w *models.Workout) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs error
	for i := range s.doc.Workouts {
		errs = multierr.Append(errs, fn(&s.doc.Workouts[i]))
	}
	sortWorkouts(s.doc.Workouts)
	return errs
}

// Pending lists every exercise that still carries unparsed set notation.
func (s *Store) Pending() []Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Pending
	for _, w := range s.doc.Workouts {
		for i, ex := range w.Exercises {
			if !ex.Pending() {
				continue
			}
			out = append(out, Pending{
				WorkoutID: w.ID,
				Header:    w.Header(),
				Index:     i,
				Exercise:  ex.Name,
				Raw:       ex.RawSets,
			})
		}
	}
	return out
}

// SetExercise replaces exercise i of the workout with the given ID.
func (s *Store) SetExercise(id uuid.UUID, i int, ex models.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wi, err := s.exercise(id, i)
	if err != nil {
		return err
	}
	ex.Sets = slices.Clone(ex.Sets)
	s.doc.Workouts[wi].Exercises[i] = ex
	return nil
}

// RemoveExercise deletes exercise i of the workout with the given ID.
func (s *Store) RemoveExercise(id uuid.UUID, i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wi, err := s.exercise(id, i)
	if err != nil {
		return err
	}
	w := &s.doc.Workouts[wi]
	w.Exercises = slices.Delete(w.Exercises, i, i+1)
	return nil
}

func (s *Store) index(id uuid.UUID) (int, error) {
	for i := range s.doc.Workouts {
		if s.doc.Workouts[i].ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("workout %s: %w", id, ErrNotFound)
}

func (s *Store) exercise(id uuid.UUID, i int) (int, error) {
	wi, err := s.index(id)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(s.doc.Workouts[wi].Exercises) {
		return 0, fmt.Errorf("workout %s exercise %d: %w", id, i, ErrNotFound)
	}
	return wi, nil
}

// sortWorkouts orders by timestamp, keeping undated workouts last in the
// order they were added.
func sortWorkouts(ws []models.Workout) {
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].Less(&ws[j]) })
}

func clone(w models.Workout) models.Workout {
	w.Tags = cloneTags(w.Tags)
	w.Raw = slices.Clone(w.Raw)
	w.Exercises = slices.Clone(w.Exercises)
	for i := range w.Exercises {
		w.Exercises[i].Tags = cloneTags(w.Exercises[i].Tags)
		w.Exercises[i].Sets = slices.Clone(w.Exercises[i].Sets)
	}
	return w
}

func cloneTags(t models.Tags) models.Tags {
	if t == nil {
		return nil
	}
	out := make(models.Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
