package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/claude/crank/internal/guide"
	"github.com/claude/crank/internal/importer"
	"github.com/claude/crank/internal/ingest/wkt"
	"github.com/claude/crank/internal/models"
)

var (
	parseJSON    bool
	importDryRun bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE.wkt",
	Short: "Parse a logbook and print it as JSON or normalized wkt",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var importCmd = &cobra.Command{
	Use:   "import DIR",
	Short: "Import every .wkt logbook in a directory into the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [FILE.wkt]",
	Short: "Re-parse pending set notation",
	Long: `Re-parse set notation that is still pending, number unordered sets and
repair unreadable timestamps.

Without an argument the store is upgraded and saved. With a logbook file the
upgraded logbook is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpgrade,
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List exercises with unparsed set notation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		g := guide.New(store, guide.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()), log)
		g.Review()
		return nil
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Repair unparsed set notation interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		g := guide.New(store, guide.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()), log)
		stats, err := g.Fix(cmd.Context())
		log.Info("fix stats",
			"repaired", stats.Repaired,
			"partial", stats.Partial,
			"skipped", stats.Skipped,
			"dropped", stats.Dropped,
		)
		return err
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print JSON instead of wkt")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "report counts without writing the store")
}

func runParse(cmd *cobra.Command, args []string) error {
	workouts, err := readLogbook(args[0])
	if err != nil {
		return err
	}
	for i := range workouts {
		log.Debug("parsed", "workout", wkt.Summary(&workouts[i]))
	}

	out := cmd.OutOrStdout()
	if !parseJSON {
		return wkt.Render(out, workouts)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(workouts)
}

func readLogbook(path string) ([]models.Workout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	workouts, err := wkt.NewParser(log).Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return workouts, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s does not exist or is not a directory", dir)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	if importDryRun {
		log.Info("DRY RUN mode, the store will not be written")
	}

	stats, err := importer.New(store, log, importDryRun).Import(cmd.Context(), dir)
	printStats(stats)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	log.Info("import complete", "workouts", store.Len())
	return nil
}

func printStats(stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"workouts_inserted", stats.WorkoutsInserted,
		"workouts_replaced", stats.WorkoutsReplaced,
		"exercises_parsed", stats.ExercisesParsed,
		"sets_parsed", stats.SetsParsed,
		"raw_sets_pending", stats.RawSetsPending,
	)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	up := wkt.NewUpgrader(log)

	if len(args) == 1 {
		workouts, err := readLogbook(args[0])
		if err != nil {
			return err
		}
		_, err = up.UpgradeAll(workouts)
		logPending(err)
		return wkt.Render(cmd.OutOrStdout(), workouts)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	var stats wkt.UpgradeStats
	err = store.Update(func(w *models.Workout) error {
		return up.Upgrade(w, &stats)
	})
	logPending(err)
	log.Info("upgrade stats",
		"lines_repaired", stats.LinesRepaired,
		"lines_pending", stats.LinesPending,
		"sets_numbered", stats.SetsNumbered,
		"timestamps_fixed", stats.TimestampsFixed,
	)
	return store.Save()
}

// logPending reports notation an upgrade left pending. It is not fatal.
func logPending(err error) {
	if errs := multierr.Errors(err); len(errs) > 0 {
		log.Warn("notation still pending, run crank fix", "count", len(errs))
	}
}
