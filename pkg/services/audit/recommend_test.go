package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

func TestRecommendations_FiltersFailedChecksWithRemediation(t *testing.T) {
	categories := []domain.Category{
		{
			Key: "network_settings",
			Checks: []domain.CheckVerdict{
				{Name: "tls-version", Status: domain.CheckFailed, Severity: domain.SeverityHigh, Recommendation: "disable legacy TLS"},
				{Name: "no-advice", Status: domain.CheckFailed, Severity: domain.SeverityCritical},
				{Name: "passed-with-advice", Status: domain.CheckPassed, Recommendation: "keep it up"},
				{Name: "warned", Status: domain.CheckWarning, Recommendation: "review soon"},
			},
		},
	}

	recs := Recommendations(categories)

	assert.Len(t, recs, 1)
	assert.Equal(t, "tls-version", recs[0].Check)
	assert.Equal(t, "network_settings", recs[0].Category)
	assert.Equal(t, 8, recs[0].Priority)
}

func TestRecommendations_OrderedByPriorityWithStableTies(t *testing.T) {
	categories := []domain.Category{
		{
			Key: "system_configuration",
			Checks: []domain.CheckVerdict{
				{Name: "low-first", Status: domain.CheckFailed, Severity: domain.SeverityLow, Recommendation: "a"},
				{Name: "critical-first", Status: domain.CheckFailed, Severity: domain.SeverityCritical, Recommendation: "b"},
				{Name: "medium", Status: domain.CheckFailed, Severity: domain.SeverityMedium, Recommendation: "c"},
				{Name: "critical-second", Status: domain.CheckFailed, Severity: domain.SeverityCritical, Recommendation: "d"},
			},
		},
	}

	recs := Recommendations(categories)

	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		names = append(names, rec.Check)
	}
	assert.Equal(t, []string{"critical-first", "critical-second", "medium", "low-first"}, names)
}

func TestRecommendations_UnknownSeverityGetsMediumWeight(t *testing.T) {
	categories := []domain.Category{
		{
			Key: "web_filtering",
			Checks: []domain.CheckVerdict{
				{Name: "odd", Status: domain.CheckFailed, Severity: "catastrophic", Recommendation: "fix"},
			},
		},
	}

	recs := Recommendations(categories)

	assert.Len(t, recs, 1)
	assert.Equal(t, 5, recs[0].Priority)
}

func TestAggregateRecommendations_KeepsDeviceOrderForEqualPriority(t *testing.T) {
	devices := []domain.DeviceResult{
		{Recommendations: []domain.Recommendation{
			{Check: "a-high", Priority: 8},
			{Check: "a-low", Priority: 2},
		}},
		{Recommendations: []domain.Recommendation{
			{Check: "b-high", Priority: 8},
			{Check: "b-critical", Priority: 10},
		}},
	}

	recs := AggregateRecommendations(devices)

	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		names = append(names, rec.Check)
	}
	assert.Equal(t, []string{"b-critical", "a-high", "b-high", "a-low"}, names)
}
