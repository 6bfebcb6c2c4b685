package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

const structuredOutput = `{
	"timestamp": "2024-05-01T10:00:00Z",
	"checks": {
		"network_settings": {
			"name": "Network Settings",
			"description": "Network level checks",
			"checks": [
				{"name": "mgmt-interface", "description": "Management interface exposure", "status": "passed", "severity": "high"},
				{"name": "tls-version", "status": "failed", "severity": "high", "recommendation": "disable legacy TLS"},
				{"name": "dns-servers", "status": "warning"},
				{"name": "snmp", "status": "skipped"}
			]
		},
		"security_policies": {
			"name": "Security Policies",
			"checks": [
				{"name": "default-drop", "status": "passed", "severity": "critical"}
			]
		}
	}
}`

func TestNormalize_Structured(t *testing.T) {
	result := Normalize([]byte(structuredOutput))

	require.Equal(t, domain.RunCompleted, result.Status)
	assert.Equal(t, "2024-05-01T10:00:00Z", result.Timestamp)
	require.Len(t, result.Categories, 2)

	network := result.Categories[0]
	assert.Equal(t, "network_settings", network.Key)
	assert.Equal(t, "Network Settings", network.Name)
	assert.Equal(t, 4, network.Total)
	assert.Equal(t, 1, network.Passed)
	assert.Equal(t, 1, network.Failed)
	assert.Equal(t, 1, network.Warnings)
	// total minus buckets is the unrecognized "skipped" check
	assert.Equal(t, network.Total, len(network.Checks))
	assert.Equal(t, 1, network.Total-network.Passed-network.Failed-network.Warnings)

	assert.Equal(t, 5, result.Summary.TotalChecks)
	assert.Equal(t, 2, result.Summary.PassedChecks)
	assert.Equal(t, 40.0, result.Summary.Score)

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "tls-version", result.Recommendations[0].Check)
	assert.Equal(t, 8, result.Recommendations[0].Priority)
}

func TestNormalize_MissingSeverityDefaultsToMedium(t *testing.T) {
	result := Normalize([]byte(`{"checks":{"c":{"name":"C","checks":[{"name":"x","status":"failed","recommendation":"fix"}]}}}`))

	require.Equal(t, domain.RunCompleted, result.Status)
	require.Len(t, result.Categories, 1)
	assert.Equal(t, domain.SeverityMedium, result.Categories[0].Checks[0].Severity)
	assert.Equal(t, 5, result.Recommendations[0].Priority)
}

func TestNormalize_NonMappingCategoriesAreSkipped(t *testing.T) {
	result := Normalize([]byte(`{"checks":{"bogus":"text","also_bogus":[1,2],"real":{"name":"Real","checks":[{"name":"x","status":"passed"}]}}}`))

	require.Equal(t, domain.RunCompleted, result.Status)
	require.Len(t, result.Categories, 1)
	assert.Equal(t, "real", result.Categories[0].Key)
	assert.Equal(t, 1, result.Summary.TotalChecks)
}

func TestNormalize_CategoryWithoutChecks(t *testing.T) {
	result := Normalize([]byte(`{"checks":{"empty":{"name":"Empty"}}}`))

	require.Equal(t, domain.RunCompleted, result.Status)
	require.Len(t, result.Categories, 1)
	assert.Equal(t, 0, result.Categories[0].Total)
	assert.Equal(t, 0.0, result.Summary.Score)
}

func TestNormalize_CategoryOrderFollowsDocument(t *testing.T) {
	result := Normalize([]byte(`{"checks":{"zz":{"name":"Z"},"aa":{"name":"A"},"mm":{"name":"M"}}}`))

	keys := make([]string, 0, len(result.Categories))
	for _, cat := range result.Categories {
		keys = append(keys, cat.Key)
	}
	assert.Equal(t, []string{"zz", "aa", "mm"}, keys)
}

func TestNormalize_MalformedStructureBecomesErrorResult(t *testing.T) {
	// Valid JSON whose checks section is not an object cannot be
	// normalized structurally and must surface as an error result, not a
	// panic and not a fallback scan.
	result := Normalize([]byte(`{"checks": [1, 2, 3]}`))

	assert.Equal(t, domain.RunError, result.Status)
	assert.Contains(t, result.Error, "failed to process audit result")
}

func TestNormalize_TopLevelNonObjectBecomesErrorResult(t *testing.T) {
	result := Normalize([]byte(`42`))

	assert.Equal(t, domain.RunError, result.Status)
}

func TestNormalize_FreeformFallback(t *testing.T) {
	output := []byte(`Sophos Firewall Audit
Check 1: PASS
Check 2: pass
Check 3: FAIL
Check 4: WARNING - weak ciphers
some unrelated line
`)

	result := Normalize(output)

	require.Equal(t, domain.RunCompleted, result.Status)
	assert.Empty(t, result.Categories)
	assert.Equal(t, 2, result.Summary.PassedChecks)
	assert.Equal(t, 1, result.Summary.FailedChecks)
	assert.Equal(t, 1, result.Summary.WarningChecks)
	assert.Equal(t, 4, result.Summary.TotalChecks)
	assert.Equal(t, 50.0, result.Summary.Score)
}

func TestNormalize_FreeformCountsLineOnceAcrossTokens(t *testing.T) {
	// A line carrying several tokens goes to the first bucket in
	// PASS, FAIL, WARN order, never to more than one.
	result := Normalize([]byte("PASS despite earlier WARN\nFAIL with WARN attached\n"))

	assert.Equal(t, 1, result.Summary.PassedChecks)
	assert.Equal(t, 1, result.Summary.FailedChecks)
	assert.Equal(t, 0, result.Summary.WarningChecks)
	assert.Equal(t, 2, result.Summary.TotalChecks)
}

func TestNormalize_FreeformIsIdempotent(t *testing.T) {
	output := []byte("a: PASS\nb: FAIL\nc: WARN\n")

	first := Normalize(output)
	second := Normalize(output)

	assert.Equal(t, first, second)
}

func TestNormalize_EmptyOutput(t *testing.T) {
	result := Normalize(nil)

	assert.Equal(t, domain.RunCompleted, result.Status)
	assert.Equal(t, 0, result.Summary.TotalChecks)
	assert.Equal(t, 0.0, result.Summary.Score)
}
