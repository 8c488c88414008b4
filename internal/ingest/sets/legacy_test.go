package sets

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/crank/internal/models"
)

// TestTokenize verifies commas and whitespace only separate tokens while
// rest-pause and multiplier punctuation stays inside a token.
func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{
			"95,115,130,150x5,170x5/3/2, 185x5",
			[]string{"95", "115", "130", "150", "x", "5", "170", "x", "5/3/2", "185", "x", "5"},
		},
		{"15 x 35|30", []string{"15", "x", "35|30"}},
		{"120 x 3 (2), 2", []string{"120", "x", "3 (2)", "2"}},
		{"120x3(2)", []string{"120", "x", "3(2)"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Tokens(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokens(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

// TestTokenizeRestartable verifies the sequence can be ranged over twice.
func TestTokenizeRestartable(t *testing.T) {
	seq := Tokenize("60 x 8, 6")
	var first, second []string
	for tok := range seq {
		first = append(first, tok)
	}
	for tok := range seq {
		second = append(second, tok)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
}

// TestPartitionTokens verifies work/rep runs are split at each separator.
func TestPartitionTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []Partition
	}{
		{
			"95,115,130,150x5,170x5/3/2, 185x5",
			[]Partition{
				{Works: []int{95, 115, 130, 150}, Reps: []string{"5"}},
				{Works: []int{170}, Reps: []string{"5/3/2"}},
				{Works: []int{185}, Reps: []string{"5"}},
			},
		},
		{
			"20, 60 x 5, 80, 90 x 3, 91, 105 x 5, 119 x 4",
			[]Partition{
				{Works: []int{20, 60}, Reps: []string{"5"}},
				{Works: []int{80, 90}, Reps: []string{"3"}},
				{Works: []int{91, 105}, Reps: []string{"5"}},
				{Works: []int{119}, Reps: []string{"4"}},
			},
		},
		{
			"60 x 8, 6, 4, 70 x 5",
			[]Partition{
				{Works: []int{60}, Reps: []string{"8", "6", "4"}},
				{Works: []int{70}, Reps: []string{"5"}},
			},
		},
		{
			"100 x 5, 7, 70, 80,90 x 6",
			[]Partition{
				{Works: []int{100}, Reps: []string{"5", "7"}},
				{Works: []int{70, 80, 90}, Reps: []string{"6"}},
			},
		},
		{
			"10/5",
			[]Partition{{Works: []int{0}, Reps: []string{"10/5"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := PartitionTokens(Tokenize(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestParseLegacy covers the shorthand and special rep notations.
func TestParseLegacy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []models.Set
	}{
		{"single", "20 x 5", []models.Set{{Work: 20, Reps: 5}}},
		{
			"simple list",
			"20 x 5, 60 x 5, 80 x 3",
			[]models.Set{{Work: 20, Reps: 5}, {Work: 60, Reps: 5}, {Work: 80, Reps: 3}},
		},
		{
			"same reps",
			"20, 60, 80 x 5",
			[]models.Set{{Work: 20, Reps: 5}, {Work: 60, Reps: 5}, {Work: 80, Reps: 5}},
		},
		{
			"same weight",
			"60 x 8, 6, 4",
			[]models.Set{{Work: 60, Reps: 8}, {Work: 60, Reps: 6}, {Work: 60, Reps: 4}},
		},
		{
			"same reps then weights",
			"20, 60, 80 x 5, 60 x 8, 6, 4",
			[]models.Set{
				{Work: 20, Reps: 5}, {Work: 60, Reps: 5}, {Work: 80, Reps: 5},
				{Work: 60, Reps: 8}, {Work: 60, Reps: 6}, {Work: 60, Reps: 4},
			},
		},
		{
			"shorthand list",
			"20, 60 x 5, 80, 90 x 3, 91, 105 x 5, 119 x 4",
			[]models.Set{
				{Work: 20, Reps: 5}, {Work: 60, Reps: 5}, {Work: 80, Reps: 3},
				{Work: 90, Reps: 3}, {Work: 91, Reps: 5}, {Work: 105, Reps: 5},
				{Work: 119, Reps: 4},
			},
		},
		{"rest-pause", "134 x 10/5", []models.Set{{Work: 134, Reps: 10}, {Work: 134, Reps: 5}}},
		{"unilateral", "15 x 35|30", []models.Set{{Work: 15, Reps: 35}, {Work: 15, Reps: 30}}},
		{"bodyweight rest-pause", "10/5", []models.Set{{Reps: 10}, {Reps: 5}}},
		{
			"multiplier",
			"120 x 3 (2), 2",
			[]models.Set{{Work: 120, Reps: 3}, {Work: 120, Reps: 3}, {Work: 120, Reps: 2}},
		},
		{
			"mixed",
			"95,115,130,150x5,170x5/3/2, 185x5",
			[]models.Set{
				{Work: 95, Reps: 5}, {Work: 115, Reps: 5}, {Work: 130, Reps: 5},
				{Work: 150, Reps: 5}, {Work: 170, Reps: 5}, {Work: 170, Reps: 3},
				{Work: 170, Reps: 2}, {Work: 185, Reps: 5},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLegacy(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLegacy(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

// TestParseLegacyHardString exercises every rule at once; the split
// heuristic must find 14 sets.
func TestParseLegacyHardString(t *testing.T) {
	got, err := ParseLegacy("100 x 5, 7, 70, 80,90 x 6, 110 x 6,5, 4, 120 x 3 (2), 2, 100 x 5/4/3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Set{
		{Work: 100, Reps: 5}, {Work: 100, Reps: 7},
		{Work: 70, Reps: 6}, {Work: 80, Reps: 6}, {Work: 90, Reps: 6},
		{Work: 110, Reps: 6}, {Work: 110, Reps: 5}, {Work: 110, Reps: 4},
		{Work: 120, Reps: 3}, {Work: 120, Reps: 3}, {Work: 120, Reps: 2},
		{Work: 100, Reps: 5}, {Work: 100, Reps: 4}, {Work: 100, Reps: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// TestParseLegacyErrors verifies failures are reported, never guessed.
func TestParseLegacyErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"several works several reps", "20, 60, 80 x 5, 6", ErrAmbiguousPartition},
		{"separator first", "x 5", ErrAmbiguousPartition},
		{"trailing separator", "100 x", ErrAmbiguousPartition},
		{"double separator", "100 x x 5", ErrAmbiguousPartition},
		{"rep word", "100 x five", ErrUnrecognizedRepToken},
		{"zero reps", "100 x 0", ErrUnrecognizedRepToken},
		{"broken rest-pause", "100 x 5/", ErrUnrecognizedRepToken},
		{"work word", "heavy x 5", ErrUnrecognizedWorkToken},
		{"empty", "  ", ErrNoSetsParsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLegacy(tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseLegacy(%q) error = %v, want %v", tt.in, err, tt.want)
			}
			if got != nil {
				t.Errorf("expected no sets on error, got %v", got)
			}
		})
	}
}

// TestExpandConservesReps verifies a single-work partition yields at least
// one set per rep token, exactly one when no token expands.
func TestExpandConservesReps(t *testing.T) {
	tests := []struct {
		reps []string
		want int
	}{
		{[]string{"8", "6", "4"}, 3},
		{[]string{"8", "6/4"}, 3},
		{[]string{"3 (4)"}, 4},
		{[]string{"35|30", "5"}, 3},
	}
	for _, tt := range tests {
		got, err := ExpandPartitions([]Partition{{Works: []int{100}, Reps: tt.reps}})
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tt.reps, err)
		}
		if len(got) < len(tt.reps) {
			t.Errorf("%v: %d sets, fewer than %d rep tokens", tt.reps, len(got), len(tt.reps))
		}
		if len(got) != tt.want {
			t.Errorf("%v: %d sets, want %d", tt.reps, len(got), tt.want)
		}
	}
}

// TestExpandRepCopiesAreIndependent verifies multiplied sets do not share
// storage: changing one leaves the others alone.
func TestExpandRepCopiesAreIndependent(t *testing.T) {
	got, err := ExpandRep(120, "3 (3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got[0].Reps = 99
	if got[1].Reps != 3 || got[2].Reps != 3 {
		t.Errorf("copies changed with the first: %v", got)
	}
}
