package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

type TableConfig struct {
	NameWidth   int
	StatusWidth int
	CountWidth  int
	ScoreWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:   32,
		StatusWidth: 10,
		CountWidth:  8,
		ScoreWidth:  8,
	}
}

// Reporter prints a run summary table to a terminal.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (r *Reporter) Handle(agg domain.AuditAggregate) error {
	funcMap := template.FuncMap{
		"formatRow": func(name, status string, passed, failed, warnings any, score string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*v | %-*v | %-*v | %-*s |",
				r.config.NameWidth, name,
				r.config.StatusWidth, status,
				r.config.CountWidth, passed,
				r.config.CountWidth, failed,
				r.config.CountWidth, warnings,
				r.config.ScoreWidth, score)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", r.config.NameWidth+2),
				strings.Repeat("-", r.config.StatusWidth+2),
				strings.Repeat("-", r.config.CountWidth+2),
				strings.Repeat("-", r.config.CountWidth+2),
				strings.Repeat("-", r.config.CountWidth+2),
				strings.Repeat("-", r.config.ScoreWidth+2))
		},
		"score": func(s domain.Summary) string {
			return fmt.Sprintf("%.2f", s.Score)
		},
		"band": Band,
	}

	tmpl := `
Sophos Firewall Audit - {{.Client}}

Overall Score: {{printf "%.1f" .Summary.Score}}% ({{band .Summary.Score}})
Checks: {{.Summary.TotalChecks}} total, {{.Summary.PassedChecks}} passed, {{.Summary.FailedChecks}} failed, {{.Summary.WarningChecks}} warnings

{{separator}}
{{formatRow "Firewall" "Status" "Passed" "Failed" "Warn" "Score"}}
{{separator}}
{{range .Devices}}{{formatRow .Name (printf "%s" .Status) .Summary.PassedChecks .Summary.FailedChecks .Summary.WarningChecks (score .Summary)}}
{{end}}{{separator}}
`

	t, err := template.New("summary").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(r.writer, agg)
}
