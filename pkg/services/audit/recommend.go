package audit

import (
	"sort"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// Recommendations extracts ranked remediations from the category tree.
// Only failed checks carrying remediation text are included; a failed
// check without remediation still counts toward failure totals but has
// nothing actionable to rank. The sort is stable, so equal priorities keep
// their encounter order (category order, then check order).
func Recommendations(categories []domain.Category) []domain.Recommendation {
	var recs []domain.Recommendation
	for _, cat := range categories {
		for _, check := range cat.Checks {
			if check.Status != domain.CheckFailed || check.Recommendation == "" {
				continue
			}
			recs = append(recs, domain.Recommendation{
				Category:       cat.Key,
				Check:          check.Name,
				Severity:       check.Severity,
				Recommendation: check.Recommendation,
				Priority:       check.Severity.Weight(),
			})
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}

// AggregateRecommendations merges the per-device recommendation lists of a
// run and re-ranks them, preserving device order for equal priorities.
func AggregateRecommendations(devices []domain.DeviceResult) []domain.Recommendation {
	var recs []domain.Recommendation
	for _, d := range devices {
		recs = append(recs, d.Recommendations...)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}
