package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/crank/internal/ingest/wkt"
	"github.com/claude/crank/internal/models"
	"github.com/claude/crank/internal/program/fto"
	"github.com/claude/crank/internal/program/ssp"
)

var (
	ftoName     string
	ftoMax      float64
	ftoPrevious float64
	ftoWeek     int
	units       string

	maxWeight float64
	maxReps   int

	sspDay    int
	sspSetMax int
	sspApex   int
	sspWork   int
	sspName   string
)

var ftoCmd = &cobra.Command{
	Use:   "fto",
	Short: "Print a 5/3/1 training day",
	Long: `Print a 5/3/1 training day as a logbook entry.

The training max is given with --max, or recovered with --previous from the
top weight lifted the week before.`,
	Args: cobra.NoArgs,
	RunE: runFTO,
}

var maxCmd = &cobra.Command{
	Use:   "max",
	Short: "Estimate competition and training maxes from a rep-max set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := unit()
		if err != nil {
			return err
		}
		if maxWeight <= 0 || maxReps <= 0 {
			return errors.New("--weight and --reps must be positive")
		}
		m := fto.MaxCalculator(maxWeight, maxReps, u)
		fmt.Fprintf(cmd.OutOrStdout(), "competition max: %d %s\ntraining max: %d %s\n", m.Competition, u, m.Training, u)
		return nil
	},
}

var sspCmd = &cobra.Command{
	Use:   "ssp",
	Short: "Print the sets of a pyramid day",
	Args:  cobra.NoArgs,
	RunE:  runSSP,
}

func init() {
	ftoCmd.Flags().StringVar(&ftoName, "name", "Squat", "exercise name")
	ftoCmd.Flags().Float64Var(&ftoMax, "max", 0, "training max")
	ftoCmd.Flags().Float64Var(&ftoPrevious, "previous", 0, "top weight of the previous week")
	ftoCmd.Flags().IntVar(&ftoWeek, "week", 1, "training week, 1-3")
	ftoCmd.MarkFlagsMutuallyExclusive("max", "previous")
	ftoCmd.MarkFlagsOneRequired("max", "previous")

	maxCmd.Flags().Float64Var(&maxWeight, "weight", 0, "weight lifted")
	maxCmd.Flags().IntVar(&maxReps, "reps", 0, "reps completed")
	maxCmd.MarkFlagRequired("weight")
	maxCmd.MarkFlagRequired("reps")

	for _, c := range []*cobra.Command{ftoCmd, maxCmd} {
		c.Flags().StringVar(&units, "units", "", "lbs or kgs (default from config)")
	}

	sspCmd.Flags().IntVar(&sspDay, "day", 1, "day of the scheme")
	sspCmd.Flags().IntVar(&sspSetMax, "set-max", 0, "reps per set while accumulating (default from config)")
	sspCmd.Flags().IntVar(&sspApex, "apex", 0, "total reps at the peak (default from config)")
	sspCmd.Flags().IntVar(&sspWork, "work", 0, "weight for each set; 0 prints bodyweight notation")
	sspCmd.Flags().StringVar(&sspName, "name", "Pull-up", "exercise name")
}

func unit() (fto.Unit, error) {
	if units != "" {
		return fto.ParseUnit(units)
	}
	return fto.ParseUnit(cfg.Units)
}

// today returns a dated workout for the current minute.
func today(ex models.Exercise) models.Workout {
	ts := time.Now().Truncate(time.Minute)
	return models.Workout{
		ID:        models.NewWorkoutID(ts.Format(time.RFC3339)),
		Timestamp: ts,
		Exercises: []models.Exercise{ex},
	}
}

func runFTO(cmd *cobra.Command, args []string) error {
	u, err := unit()
	if err != nil {
		return err
	}
	tm := ftoMax
	if ftoPrevious > 0 {
		tm, err = fto.MaxFromPrevious(ftoPrevious, ftoWeek, cfg.FTO.Increment, u, cfg.FTO.Smooth)
		if err != nil {
			return err
		}
		log.Debug("training max recovered", "previous", ftoPrevious, "week", ftoWeek, "training_max", tm)
	}
	if tm <= 0 {
		return errors.New("training max must be positive")
	}

	ex, err := fto.Plan(ftoName, tm, ftoWeek, u)
	if err != nil {
		return err
	}
	w := today(ex)
	_, err = fmt.Fprint(cmd.OutOrStdout(), wkt.RenderWorkout(&w))
	return err
}

func runSSP(cmd *cobra.Command, args []string) error {
	scheme := ssp.Scheme{SetMax: cfg.SSP.SetMax, Apex: cfg.SSP.Apex}
	if sspSetMax > 0 {
		scheme.SetMax = sspSetMax
	}
	if sspApex > 0 {
		scheme.Apex = sspApex
	}
	reps, err := scheme.Day(sspDay)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sspWork <= 0 {
		_, err = fmt.Fprintf(out, "%s: %s\n", sspName, ssp.Notation(reps))
		return err
	}
	w := today(models.Exercise{Name: sspName, Sets: ssp.Sets(reps, sspWork)})
	_, err = fmt.Fprint(out, wkt.RenderWorkout(&w))
	return err
}
