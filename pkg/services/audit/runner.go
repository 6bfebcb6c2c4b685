package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry-go"
	"github.com/rs/zerolog"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/services/sophos"
)

// Runner drives the full pipeline for a list of devices. The pipeline
// itself is synchronous; a Runner holds no mutable state across runs and
// may be shared by whatever worker the caller schedules it on.
type Runner struct {
	exec       sophos.Executor
	attempts   uint
	retryDelay time.Duration
}

type RunnerOption func(*Runner)

// WithAttempts sets how many times an invocation that fails with status
// error is attempted before the failure is recorded. Timeouts are never
// retried.
func WithAttempts(n uint) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.attempts = n
		}
	}
}

func WithRetryDelay(d time.Duration) RunnerOption {
	return func(r *Runner) { r.retryDelay = d }
}

func NewRunner(exec sophos.Executor, opts ...RunnerOption) *Runner {
	r := &Runner{
		exec:       exec,
		attempts:   1,
		retryDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run audits every target in order and folds the results into an
// AuditAggregate. A failure on one device is contained in its
// DeviceResult and never aborts the remaining devices.
func (r *Runner) Run(ctx context.Context, client string, targets []domain.DeviceTarget) domain.AuditAggregate {
	logger := zerolog.Ctx(ctx)

	agg := domain.AuditAggregate{
		Client:      client,
		GeneratedAt: time.Now().UTC(),
		Devices:     make([]domain.DeviceResult, 0, len(targets)),
	}

	for i, target := range targets {
		logger.Info().Str("host", target.Hostname).Str("device", target.DisplayName()).Msg("starting firewall audit")

		raw := r.execute(ctx, target)
		result := buildDeviceResult(raw)
		result.ID = fmt.Sprintf("firewall_%d", i)
		result.Name = target.DisplayName()
		result.Hostname = target.Hostname
		agg.Devices = append(agg.Devices, result)

		logger.Info().
			Str("host", target.Hostname).
			Str("status", string(result.Status)).
			Float64("score", result.Summary.Score).
			Msg("firewall audit finished")
	}

	agg.Summary = Aggregate(agg.Devices)
	return agg
}

// execute runs one invocation, retrying error outcomes up to the
// configured attempt count. Completed and timed-out invocations are final
// on the first result.
func (r *Runner) execute(ctx context.Context, target domain.DeviceTarget) sophos.Raw {
	var raw sophos.Raw
	//nolint:errcheck // the last failure is carried inside raw
	_ = retry.Do(func() error {
		raw = r.exec.Execute(ctx, target)
		if raw.Status == sophos.ExecError {
			return errors.New(raw.Error)
		}
		return nil
	}, retry.Attempts(r.attempts), retry.Delay(r.retryDelay), retry.MaxDelay(30*time.Second))
	return raw
}

func buildDeviceResult(raw sophos.Raw) domain.DeviceResult {
	switch raw.Status {
	case sophos.ExecCompleted:
		return Normalize(raw.Stdout)
	case sophos.ExecTimeout:
		return domain.DeviceResult{Status: domain.RunTimeout, Error: raw.Error}
	default:
		return domain.DeviceResult{Status: domain.RunError, Error: raw.Error}
	}
}
