package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/store/sqlite"
)

type RunsCmd struct {
	dbPath string
	limit  int
}

func NewRunsCmd() *cobra.Command {
	rc := &RunsCmd{}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded audit runs",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.dbPath, "db", "", "SQLite database holding recorded runs")
	cmd.Flags().IntVar(&rc.limit, "limit", 20, "Maximum number of runs to list")

	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func (rc *RunsCmd) run(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.NewStore(rc.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open run database: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), rc.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("#%d  %s  %s  score=%.2f  passed=%d failed=%d warnings=%d\n",
			run.ID, run.CompletedAt.Format("2006-01-02 15:04"), run.Client,
			run.Score, run.Passed, run.Failed, run.Warnings)
	}
	return nil
}
