package audit

import (
	"math"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// Score returns passed/total as a percentage rounded half away from zero
// to two decimals. A zero total scores 0.0 rather than dividing.
func Score(passed, total int) float64 {
	if total <= 0 {
		return 0.0
	}
	return round2(float64(passed) / float64(total) * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Summarize derives the per-device summary from its categories. Totals
// include checks with unrecognized statuses, which belong to no bucket.
func Summarize(categories []domain.Category) domain.Summary {
	var s domain.Summary
	for _, cat := range categories {
		s.TotalChecks += cat.Total
		s.PassedChecks += cat.Passed
		s.FailedChecks += cat.Failed
		s.WarningChecks += cat.Warnings
	}
	s.Score = Score(s.PassedChecks, s.TotalChecks)
	return s
}

// Aggregate folds per-device summaries into the run-level summary. Counts
// are summed first and the ratio applied once; per-device scores are never
// averaged. Devices that errored or timed out contribute nothing to either
// side of the ratio.
func Aggregate(devices []domain.DeviceResult) domain.Summary {
	var s domain.Summary
	for _, d := range devices {
		if d.Status != domain.RunCompleted {
			continue
		}
		s.TotalChecks += d.Summary.TotalChecks
		s.PassedChecks += d.Summary.PassedChecks
		s.FailedChecks += d.Summary.FailedChecks
		s.WarningChecks += d.Summary.WarningChecks
	}
	s.Score = Score(s.PassedChecks, s.TotalChecks)
	return s
}
