package domain

import "time"

// CheckStatus is the verdict of a single audit check as reported by the
// audit tool. Anything outside the three known values is kept verbatim and
// counted only in category totals.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "passed"
	CheckFailed  CheckStatus = "failed"
	CheckWarning CheckStatus = "warning"
)

// Severity classifies how urgent a failed check is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

var severityWeights = map[Severity]int{
	SeverityCritical: 10,
	SeverityHigh:     8,
	SeverityMedium:   5,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// Weight returns the numeric priority of a severity. Unknown severity
// strings fall back to the medium weight so third-party tool output can
// never break recommendation ranking.
func (s Severity) Weight() int {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return severityWeights[SeverityMedium]
}

// CheckVerdict is one atomic finding from the audit tool, copied verbatim
// from the tool output and never mutated afterwards.
type CheckVerdict struct {
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Status         CheckStatus `json:"status"`
	Severity       Severity    `json:"severity"`
	Recommendation string      `json:"recommendation,omitempty"`
	Details        string      `json:"details,omitempty"`
}

// Category groups related check verdicts under the key used by the audit
// tool (e.g. "security_policies"). Counts are always derived from Checks:
// Total covers every verdict including unrecognized statuses, so
// Total >= Passed+Failed+Warnings.
type Category struct {
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Total       int            `json:"total"`
	Passed      int            `json:"passed"`
	Failed      int            `json:"failed"`
	Warnings    int            `json:"warnings"`
	Checks      []CheckVerdict `json:"checks"`
}

// Summary holds derived pass/fail counts and the ratio score for one
// device or for a whole run.
type Summary struct {
	TotalChecks   int     `json:"total_checks"`
	PassedChecks  int     `json:"passed_checks"`
	FailedChecks  int     `json:"failed_checks"`
	WarningChecks int     `json:"warning_checks"`
	Score         float64 `json:"score"`
}

// RunStatus is the outcome of auditing one device.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunError     RunStatus = "error"
	RunTimeout   RunStatus = "timeout"
)

// DeviceResult is the canonical outcome for one audited device. Categories
// preserve the order of the tool output so rendered reports are
// reproducible for identical input.
type DeviceResult struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Hostname        string           `json:"hostname"`
	Status          RunStatus        `json:"status"`
	Error           string           `json:"error,omitempty"`
	Timestamp       string           `json:"timestamp,omitempty"`
	Categories      []Category       `json:"categories"`
	Summary         Summary          `json:"summary"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// AuditAggregate is the run-level rollup across all audited devices.
// Summary is computed by summing the per-device summary counts of
// completed devices and applying the ratio formula once.
type AuditAggregate struct {
	Client      string         `json:"client"`
	GeneratedAt time.Time      `json:"generated_at"`
	Devices     []DeviceResult `json:"devices"`
	Summary     Summary        `json:"summary"`
}

// Recommendation is a ranked remediation derived from a failed check.
type Recommendation struct {
	Category       string   `json:"category"`
	Check          string   `json:"check"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
	Priority       int      `json:"priority"`
}
