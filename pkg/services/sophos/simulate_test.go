package sophos

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

func TestSimulatedExecutor_EmitsStructuredOutput(t *testing.T) {
	e := &SimulatedExecutor{Seed: 42}
	raw := e.Execute(context.Background(), domain.DeviceTarget{Hostname: "10.0.0.1"})

	require.Equal(t, ExecCompleted, raw.Status)
	require.True(t, json.Valid(raw.Stdout), "simulator must emit valid JSON")

	var doc struct {
		Timestamp string                     `json:"timestamp"`
		Checks    map[string]json.RawMessage `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(raw.Stdout, &doc))
	assert.NotEmpty(t, doc.Timestamp)
	assert.Len(t, doc.Checks, 10)
	assert.Contains(t, doc.Checks, "security_policies")
	assert.Contains(t, doc.Checks, "application_control")
}

func TestSimulatedExecutor_DeterministicPerSeedAndHost(t *testing.T) {
	target := domain.DeviceTarget{Hostname: "10.0.0.1"}

	first := (&SimulatedExecutor{Seed: 7}).Execute(context.Background(), target)
	second := (&SimulatedExecutor{Seed: 7}).Execute(context.Background(), target)

	// the timestamp differs between invocations; the check payload must not
	var a, b struct {
		Checks json.RawMessage `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(first.Stdout, &a))
	require.NoError(t, json.Unmarshal(second.Stdout, &b))
	assert.Equal(t, string(a.Checks), string(b.Checks))

	other := (&SimulatedExecutor{Seed: 7}).Execute(context.Background(), domain.DeviceTarget{Hostname: "10.0.0.2"})
	var c struct {
		Checks json.RawMessage `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(other.Stdout, &c))
	assert.NotEqual(t, string(a.Checks), string(c.Checks))
}
