package sophos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// DefaultTimeout bounds one tool invocation wall-clock time.
const DefaultTimeout = 300 * time.Second

const timeoutMessage = "Audit execution timed out after 5 minutes"

// ExecStatus is the outcome of one tool invocation.
type ExecStatus string

const (
	ExecCompleted ExecStatus = "completed"
	ExecError     ExecStatus = "error"
	ExecTimeout   ExecStatus = "timeout"
)

// Raw is the captured output of one tool invocation. Invocation failures
// are represented as values rather than errors so one broken device cannot
// abort the rest of a run.
type Raw struct {
	Status   ExecStatus
	Stdout   []byte
	Stderr   string
	ExitCode int
	Error    string
}

// Executor runs the audit tool against one device. Implementations must be
// safe for use from a single worker per run; they share no state between
// calls.
type Executor interface {
	Execute(ctx context.Context, target domain.DeviceTarget) Raw
}

// ScriptExecutor invokes the audit script as a subprocess. Python scripts
// get the flag-based invocation, anything else is treated as a shell
// script taking positional arguments.
type ScriptExecutor struct {
	ScriptPath string
	Timeout    time.Duration
}

// NewScriptExecutor returns an executor for the given script path with the
// default 300 second timeout.
func NewScriptExecutor(scriptPath string) *ScriptExecutor {
	return &ScriptExecutor{ScriptPath: scriptPath, Timeout: DefaultTimeout}
}

// Execute writes the per-device configuration artifact into a scoped
// temporary directory, runs the tool there and captures its output. The
// directory is removed on every exit path.
func (e *ScriptExecutor) Execute(ctx context.Context, target domain.DeviceTarget) Raw {
	logger := zerolog.Ctx(ctx)

	workDir, err := os.MkdirTemp("", "sophos_audit_")
	if err != nil {
		return Raw{Status: ExecError, Error: fmt.Sprintf("create work directory: %v", err)}
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			logger.Warn().Err(rmErr).Str("dir", workDir).Msg("failed to clean up work directory")
		}
	}()

	configPath, err := WriteAuditConfig(workDir, target)
	if err != nil {
		return Raw{Status: ExecError, Error: err.Error()}
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name, args := e.command(configPath, target)
	logger.Info().Str("host", target.Hostname).Str("script", e.ScriptPath).Msg("executing audit script")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		logger.Error().Str("host", target.Hostname).Msg("audit script timed out")
		return Raw{Status: ExecTimeout, Error: timeoutMessage}
	case runErr != nil:
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = runErr.Error()
		}
		logger.Error().Str("host", target.Hostname).Int("exit_code", exitCode).Msg("audit script failed")
		return Raw{Status: ExecError, Stdout: stdout.Bytes(), Stderr: stderr.String(), ExitCode: exitCode, Error: msg}
	default:
		return Raw{Status: ExecCompleted, Stdout: stdout.Bytes(), Stderr: stderr.String()}
	}
}

// command builds the invocation for the configured script. The official
// audit script accepts --config/--output-format plus explicit connection
// flags; the multi-client shell wrapper takes host, port, username and
// password positionally.
func (e *ScriptExecutor) command(configPath string, target domain.DeviceTarget) (string, []string) {
	port := target.Port
	if port == 0 {
		port = domain.DefaultPort
	}

	if strings.HasSuffix(e.ScriptPath, ".py") {
		return "python3", []string{
			e.ScriptPath,
			"--config", configPath,
			"--output-format", "json",
			"--host", target.Hostname,
			"--port", strconv.Itoa(port),
			"--username", target.Username,
			"--password", target.Password,
		}
	}

	return "bash", []string{
		e.ScriptPath,
		target.Hostname,
		strconv.Itoa(port),
		target.Username,
		target.Password,
	}
}
