package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/export"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/services/audit"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/store/sqlite"
)

type ReportCmd struct {
	dbPath     string
	runID      int64
	outputPath string
}

// NewReportCmd re-renders the HTML report for a recorded run from its
// stored result blob.
func NewReportCmd() *cobra.Command {
	rc := &ReportCmd{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the HTML report for a recorded run",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.dbPath, "db", "", "SQLite database holding recorded runs")
	cmd.Flags().Int64Var(&rc.runID, "id", 0, "Run id to render")
	cmd.Flags().StringVar(&rc.outputPath, "output", "", "Path to write the HTML report to")

	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.NewStore(rc.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open run database: %w", err)
	}
	defer store.Close()

	run, err := store.GetRun(cmd.Context(), rc.runID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", rc.runID, err)
	}
	if len(run.Result) == 0 {
		return fmt.Errorf("run %d has no stored result", rc.runID)
	}

	var agg domain.AuditAggregate
	if err := json.Unmarshal(run.Result, &agg); err != nil {
		return fmt.Errorf("failed to decode stored result: %w", err)
	}

	recs := audit.AggregateRecommendations(agg.Devices)
	if err := export.WriteHTML(rc.outputPath, agg, recs); err != nil {
		return err
	}

	cmd.Printf("Report for run #%d written to %s\n", rc.runID, rc.outputPath)
	return nil
}
