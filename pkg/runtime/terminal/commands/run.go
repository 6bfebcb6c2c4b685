package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/export"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/services/audit"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/services/config"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/services/sophos"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/store/sqlite"
)

type RunCmd struct {
	inventoryPath string
	profilesPath  string
	client        string
	script        string
	simulate      bool
	attempts      uint
	dbPath        string
	outputPath    string
	reporter      *export.Reporter
}

func NewRunCmd(reporter *export.Reporter) *cobra.Command {
	rc := &RunCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Audit the firewalls in an inventory and render the report",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.inventoryPath, "inventory", "", "Path to the device inventory file")
	cmd.Flags().StringVar(&rc.profilesPath, "profiles", "", "Path to an INI credential profiles file")
	cmd.Flags().StringVar(&rc.client, "client", "Client", "Client label shown on the report")
	cmd.Flags().StringVar(&rc.script, "script", "", "Path to the audit script (overrides the inventory)")
	cmd.Flags().BoolVar(&rc.simulate, "simulate", false, "Use the simulated executor instead of the audit script")
	cmd.Flags().UintVar(&rc.attempts, "attempts", 0, "Invocation attempts per device for error outcomes")
	cmd.Flags().StringVar(&rc.dbPath, "db", "", "SQLite database to record the run in")
	cmd.Flags().StringVar(&rc.outputPath, "output", "", "Path to write the HTML report to")

	_ = cmd.MarkFlagRequired("inventory")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	inv, err := config.LoadInventory(rc.inventoryPath)
	if err != nil {
		return err
	}

	targets := inv.Targets()
	if rc.profilesPath != "" {
		profiles, err := config.LoadProfiles(rc.profilesPath)
		if err != nil {
			return fmt.Errorf("failed to load credential profiles: %w", err)
		}
		targets = profiles.Apply(targets)
	}
	if len(targets) == 0 {
		return fmt.Errorf("no firewalls configured in %s", rc.inventoryPath)
	}

	executor, err := rc.executor(inv)
	if err != nil {
		return err
	}

	attempts := rc.attempts
	if attempts == 0 {
		attempts = inv.Audit.RetryAttempts
	}

	startedAt := time.Now().UTC()
	runner := audit.NewRunner(executor, audit.WithAttempts(attempts))
	agg := runner.Run(ctx, rc.client, targets)
	recs := audit.AggregateRecommendations(agg.Devices)

	logger.Info().
		Int("devices", len(agg.Devices)).
		Float64("score", agg.Summary.Score).
		Msg("audit run finished")

	if rc.outputPath != "" {
		if err := export.WriteHTML(rc.outputPath, agg, recs); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		logger.Info().Str("path", rc.outputPath).Msg("report written")
	}

	if rc.dbPath != "" {
		if err := rc.saveRun(ctx, startedAt, agg); err != nil {
			return err
		}
	}

	return rc.reporter.Handle(agg)
}

func (rc *RunCmd) executor(inv *config.Inventory) (sophos.Executor, error) {
	script := rc.script
	if script == "" {
		script = inv.Audit.Script
	}

	switch {
	case rc.simulate || inv.Audit.Simulate:
		return &sophos.SimulatedExecutor{}, nil
	case script == "":
		return nil, errors.New("no audit script configured: pass --script, set audit.script in the inventory, or use --simulate")
	default:
		executor := sophos.NewScriptExecutor(script)
		if inv.Audit.TimeoutSeconds > 0 {
			executor.Timeout = time.Duration(inv.Audit.TimeoutSeconds) * time.Second
		}
		return executor, nil
	}
}

func (rc *RunCmd) saveRun(ctx context.Context, startedAt time.Time, agg domain.AuditAggregate) error {
	store, err := sqlite.NewStore(rc.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open run database: %w", err)
	}
	defer store.Close()

	blob, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}

	id, err := store.SaveRun(ctx, sqlite.Run{
		Client:      agg.Client,
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
		Status:      string(domain.RunCompleted),
		Passed:      agg.Summary.PassedChecks,
		Failed:      agg.Summary.FailedChecks,
		Warnings:    agg.Summary.WarningChecks,
		Score:       agg.Summary.Score,
		ReportPath:  rc.outputPath,
		Result:      blob,
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Int64("run_id", id).Str("db", rc.dbPath).Msg("run recorded")
	return nil
}
