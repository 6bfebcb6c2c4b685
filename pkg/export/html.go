// Package export renders the audit aggregate into consumer-facing
// artifacts: a self-contained HTML report and a terminal summary table.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// Score bands. The thresholds are a fixed design constant shared by every
// report, not a per-report option.
const (
	favorableThreshold = 80.0
	cautionThreshold   = 60.0
)

// Band maps a score onto its qualitative tier.
func Band(score float64) string {
	switch {
	case score >= favorableThreshold:
		return "favorable"
	case score >= cautionThreshold:
		return "caution"
	default:
		return "critical"
	}
}

func bandColor(score float64) string {
	switch Band(score) {
	case "favorable":
		return "#28a745"
	case "caution":
		return "#ffc107"
	default:
		return "#dc3545"
	}
}

// CategoryLabel turns a category key like "security_policies" into a
// display label. Purely cosmetic; scoring always uses the raw key.
func CategoryLabel(key string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ").Replace(key)
	words := strings.Fields(replaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

const maxReportRecommendations = 10

type htmlReport struct {
	Client          string
	GeneratedAt     string
	Score           float64
	ScoreColor      template.CSS
	Devices         []domain.DeviceResult
	DeviceCount     int
	TotalChecks     int
	PassedChecks    int
	FailedChecks    int
	Recommendations []domain.Recommendation
}

// RenderHTML serializes the aggregate into a single self-contained HTML
// document. All styling is inline, so the result can be written to disk
// or returned over the wire directly. It never fails for empty runs: a
// run with no devices or no categories renders placeholder sections.
func RenderHTML(agg domain.AuditAggregate, recs []domain.Recommendation) ([]byte, error) {
	if len(recs) > maxReportRecommendations {
		recs = recs[:maxReportRecommendations]
	}

	data := htmlReport{
		Client:          agg.Client,
		GeneratedAt:     agg.GeneratedAt.Format("02/01/2006 15:04:05 MST"),
		Score:           agg.Summary.Score,
		ScoreColor:      template.CSS(bandColor(agg.Summary.Score)),
		Devices:         agg.Devices,
		DeviceCount:     len(agg.Devices),
		TotalChecks:     agg.Summary.TotalChecks,
		PassedChecks:    agg.Summary.PassedChecks,
		FailedChecks:    agg.Summary.FailedChecks,
		Recommendations: recs,
	}

	funcMap := template.FuncMap{
		"label": CategoryLabel,
		"score1": func(score float64) string {
			return fmt.Sprintf("%.1f", score)
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the report and writes it to path.
func WriteHTML(path string, agg domain.AuditAggregate, recs []domain.Recommendation) error {
	out, err := RenderHTML(agg, recs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Sophos Firewall Audit Report - {{.Client}}</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
.container { max-width: 1000px; margin: 0 auto; background: white; border-radius: 10px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); overflow: hidden; }
.header { background: linear-gradient(135deg, #0066CC, #004499); color: white; padding: 30px; text-align: center; }
.header h1 { margin: 0; font-size: 2.5rem; }
.header p { margin: 10px 0 0 0; opacity: 0.9; font-size: 1.1rem; }
.content { padding: 30px; }
.summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-bottom: 30px; }
.stat-card { background: #f8f9fa; padding: 20px; border-radius: 8px; text-align: center; border-left: 4px solid #0066CC; }
.stat-value { font-size: 2rem; font-weight: bold; color: #333; margin-bottom: 5px; }
.stat-label { color: #666; font-size: 0.9rem; }
.score { font-size: 4rem; font-weight: bold; color: {{.ScoreColor}}; text-align: center; margin: 30px 0 0 0; }
.score-caption { text-align: center; color: #666; margin-bottom: 30px; }
.firewall-section { margin-bottom: 30px; padding: 20px; background: #f8f9fa; border-radius: 8px; }
.firewall-title { font-size: 1.3rem; font-weight: bold; color: #333; margin-bottom: 15px; }
.firewall-error { color: #dc3545; font-size: 0.95rem; }
.categories { display: grid; gap: 15px; }
.category { background: white; padding: 15px; border-radius: 6px; border-left: 3px solid #0066CC; }
.category-name { font-weight: bold; color: #333; margin-bottom: 10px; }
.category-stats { font-size: 0.9rem; color: #666; }
.recommendations { background: #fff3cd; border: 1px solid #ffeaa7; border-radius: 8px; padding: 20px; margin-top: 20px; }
.recommendations h3 { color: #856404; margin-top: 0; }
.recommendation { background: white; padding: 10px; margin: 10px 0; border-radius: 4px; border-left: 3px solid #ffc107; }
.footer { text-align: center; padding: 20px; color: #666; border-top: 1px solid #eee; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>Sophos Firewall Audit Report</h1>
<p>Client: {{.Client}}</p>
<p>Generated: {{.GeneratedAt}}</p>
</div>
<div class="content">
<div class="score">{{score1 .Score}}%</div>
<p class="score-caption">Overall Security Score</p>
<div class="summary">
<div class="stat-card"><div class="stat-value">{{.DeviceCount}}</div><div class="stat-label">Firewalls Audited</div></div>
<div class="stat-card"><div class="stat-value">{{.TotalChecks}}</div><div class="stat-label">Total Checks</div></div>
<div class="stat-card"><div class="stat-value">{{.PassedChecks}}</div><div class="stat-label">Checks Passed</div></div>
<div class="stat-card"><div class="stat-value">{{.FailedChecks}}</div><div class="stat-label">Checks Failed</div></div>
</div>
{{range .Devices}}
<div class="firewall-section">
<div class="firewall-title">&#128737; {{.Name}}</div>
{{if .Error}}<div class="firewall-error">{{.Status}}: {{.Error}}</div>{{end}}
<div class="categories">
{{range .Categories}}
<div class="category">
<div class="category-name">{{label .Key}}</div>
<div class="category-stats">&#9989; {{.Passed}} passed | &#10060; {{.Failed}} failed | &#9888; {{.Warnings}} warnings</div>
</div>
{{else}}
<div class="category"><div class="category-stats">No check categories reported.</div></div>
{{end}}
</div>
</div>
{{else}}
<div class="firewall-section"><div class="firewall-title">No firewalls audited</div></div>
{{end}}
{{if .Recommendations}}
<div class="recommendations">
<h3>Top Recommendations</h3>
{{range .Recommendations}}
<div class="recommendation"><strong>[{{.Severity}}]</strong> {{label .Category}} &mdash; {{.Check}}: {{.Recommendation}}</div>
{{end}}
</div>
{{end}}
</div>
<div class="footer">
<p>Report generated by the Strati Audit System using the official Sophos Firewall Audit</p>
<p>https://github.com/sophos/sophos-firewall-audit</p>
</div>
</div>
</body>
</html>
`
