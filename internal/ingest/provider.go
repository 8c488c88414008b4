package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	WorkoutsReceived int `json:"workouts_received"`
	WorkoutsInserted int `json:"workouts_inserted"`
	WorkoutsReplaced int `json:"workouts_replaced"`

	ExercisesParsed int `json:"exercises_parsed"`
	SetsParsed      int `json:"sets_parsed"`
	RawSetsPending  int `json:"raw_sets_pending"`

	Message string `json:"message,omitempty"`
}

// Add accumulates another result into r.
func (r *Result) Add(o *Result) {
	r.WorkoutsReceived += o.WorkoutsReceived
	r.WorkoutsInserted += o.WorkoutsInserted
	r.WorkoutsReplaced += o.WorkoutsReplaced
	r.ExercisesParsed += o.ExercisesParsed
	r.SetsParsed += o.SetsParsed
	r.RawSetsPending += o.RawSetsPending
}
