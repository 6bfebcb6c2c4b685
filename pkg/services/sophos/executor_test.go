package sophos

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/bash\n"+body+"\n"), 0o755))
	return path
}

func TestScriptExecutor_CommandForms(t *testing.T) {
	target := domain.DeviceTarget{Hostname: "10.0.0.1", Port: 4444, Username: "admin", Password: "pw"}

	t.Run("python script gets flag form", func(t *testing.T) {
		e := NewScriptExecutor("/opt/sophos-audit/sophos_firewall_audit.py")
		name, args := e.command("/tmp/run/audit_config.yaml", target)

		assert.Equal(t, "python3", name)
		assert.Equal(t, []string{
			"/opt/sophos-audit/sophos_firewall_audit.py",
			"--config", "/tmp/run/audit_config.yaml",
			"--output-format", "json",
			"--host", "10.0.0.1",
			"--port", "4444",
			"--username", "admin",
			"--password", "pw",
		}, args)
	})

	t.Run("shell script gets positional form", func(t *testing.T) {
		e := NewScriptExecutor("./multi_client_audit.sh")
		name, args := e.command("/tmp/run/audit_config.yaml", target)

		assert.Equal(t, "bash", name)
		assert.Equal(t, []string{"./multi_client_audit.sh", "10.0.0.1", "4444", "admin", "pw"}, args)
	})

	t.Run("zero port defaults to 4444", func(t *testing.T) {
		e := NewScriptExecutor("audit.sh")
		_, args := e.command("cfg.yaml", domain.DeviceTarget{Hostname: "fw"})
		assert.Contains(t, args, "4444")
	})
}

func TestWriteAuditConfig(t *testing.T) {
	dir := t.TempDir()
	target := domain.DeviceTarget{
		Name:        "Branch FW",
		Hostname:    "192.168.1.1",
		Port:        4444,
		Username:    "auditor",
		Password:    "secret",
		EnableHTTPS: true,
	}

	path, err := WriteAuditConfig(dir, target)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "audit_config.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg auditConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))

	require.Len(t, cfg.Firewalls, 1)
	assert.Equal(t, "Branch FW", cfg.Firewalls[0].Name)
	assert.Equal(t, "192.168.1.1", cfg.Firewalls[0].Host)
	assert.True(t, cfg.Firewalls[0].EnableHTTPS)
	assert.False(t, cfg.Firewalls[0].VerifySSL)

	assert.Equal(t, "json", cfg.AuditOptions.OutputFormat)
	assert.True(t, cfg.AuditOptions.ParallelExecution)
	assert.Equal(t, 300, cfg.AuditOptions.Timeout)
	assert.Equal(t, 3, cfg.AuditOptions.RetryAttempts)
	assert.False(t, cfg.AuditOptions.IncludeSensitive)

	// every audit category stays enabled
	assert.True(t, cfg.Checks.SecurityPolicies)
	assert.True(t, cfg.Checks.IntrusionPrevention)
	assert.True(t, cfg.Checks.ApplicationControl)
}

func TestScriptExecutor_Execute(t *testing.T) {
	ctx := context.Background()
	target := domain.DeviceTarget{Name: "fw", Hostname: "127.0.0.1", Username: "u", Password: "p"}

	t.Run("captures stdout on success", func(t *testing.T) {
		script := writeScript(t, `echo '{"checks":{"c":{"name":"C","checks":[{"name":"x","status":"passed"}]}}}'`)
		raw := NewScriptExecutor(script).Execute(ctx, target)

		assert.Equal(t, ExecCompleted, raw.Status)
		assert.Contains(t, string(raw.Stdout), `"passed"`)
	})

	t.Run("nonzero exit maps to error with stderr and code", func(t *testing.T) {
		script := writeScript(t, `echo "boom" >&2; exit 3`)
		raw := NewScriptExecutor(script).Execute(ctx, target)

		assert.Equal(t, ExecError, raw.Status)
		assert.Equal(t, 3, raw.ExitCode)
		assert.Equal(t, "boom", raw.Error)
	})

	t.Run("deadline maps to timeout", func(t *testing.T) {
		script := writeScript(t, `sleep 5`)
		e := NewScriptExecutor(script)
		e.Timeout = 100 * time.Millisecond

		raw := e.Execute(ctx, target)

		assert.Equal(t, ExecTimeout, raw.Status)
		assert.Equal(t, "Audit execution timed out after 5 minutes", raw.Error)
	})

	t.Run("work directory is removed on every path", func(t *testing.T) {
		script := writeScript(t, `pwd; exit 1`)
		raw := NewScriptExecutor(script).Execute(ctx, target)
		assert.Equal(t, ExecError, raw.Status)

		failingDir := strings.TrimSpace(string(raw.Stdout))
		if failingDir == "" {
			t.Skip("script produced no working directory")
		}
		_, err := os.Stat(failingDir)
		assert.True(t, os.IsNotExist(err))
	})
}
