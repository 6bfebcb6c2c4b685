// Package audit contains the result-aggregation pipeline: it normalizes
// raw audit-tool output into a canonical category/check model, scores it,
// ranks remediation recommendations and folds per-device results into a
// run-level aggregate.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// rawCheck and rawCategory mirror the JSON shape emitted by the audit
// tool. Fields are copied verbatim into the domain model.
type rawCheck struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
	Details        string `json:"details"`
}

type rawCategory struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Checks      []rawCheck `json:"checks"`
}

// Normalize turns raw tool stdout into a DeviceResult. Valid JSON is
// processed structurally; anything else goes through the line-oriented
// fallback scanner. Failures while building the model are contained here
// and surface as a DeviceResult with status error, never as a panic.
func Normalize(output []byte) (res domain.DeviceResult) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.DeviceResult{
				Status: domain.RunError,
				Error:  fmt.Sprintf("failed to process audit result: %v", r),
			}
		}
	}()

	if !json.Valid(bytes.TrimSpace(output)) {
		return normalizeFreeform(output)
	}

	structured, err := normalizeStructured(output)
	if err != nil {
		return domain.DeviceResult{
			Status: domain.RunError,
			Error:  fmt.Sprintf("failed to process audit result: %v", err),
		}
	}
	return structured
}

func normalizeStructured(output []byte) (domain.DeviceResult, error) {
	dec := json.NewDecoder(bytes.NewReader(output))

	tok, err := dec.Token()
	if err != nil {
		return domain.DeviceResult{}, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return domain.DeviceResult{}, fmt.Errorf("top-level value is not an object")
	}

	res := domain.DeviceResult{Status: domain.RunCompleted}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return domain.DeviceResult{}, err
		}
		key, _ := keyTok.(string)

		switch key {
		case "timestamp":
			var ts any
			if err := dec.Decode(&ts); err != nil {
				return domain.DeviceResult{}, err
			}
			if s, ok := ts.(string); ok {
				res.Timestamp = s
			}
		case "checks":
			cats, err := decodeCategories(dec)
			if err != nil {
				return domain.DeviceResult{}, err
			}
			res.Categories = cats
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return domain.DeviceResult{}, err
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return domain.DeviceResult{}, err
	}

	res.Summary = Summarize(res.Categories)
	res.Recommendations = Recommendations(res.Categories)
	return res, nil
}

// decodeCategories walks the checks object with the streaming decoder so
// category order follows the input document, keeping report output
// reproducible. Category values that are not objects are skipped.
func decodeCategories(dec *json.Decoder) ([]domain.Category, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("checks section is not an object")
	}

	var cats []domain.Category
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}

		var rc rawCategory
		if err := json.Unmarshal(trimmed, &rc); err != nil {
			return nil, fmt.Errorf("category %q: %w", key, err)
		}
		cats = append(cats, buildCategory(key, rc))
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return cats, nil
}

func buildCategory(key string, rc rawCategory) domain.Category {
	name := rc.Name
	if name == "" {
		name = "Unknown Category"
	}

	cat := domain.Category{
		Key:         key,
		Name:        name,
		Description: rc.Description,
		Checks:      make([]domain.CheckVerdict, 0, len(rc.Checks)),
	}

	for _, c := range rc.Checks {
		severity := domain.Severity(c.Severity)
		if c.Severity == "" {
			severity = domain.SeverityMedium
		}

		verdict := domain.CheckVerdict{
			Name:           c.Name,
			Description:    c.Description,
			Status:         domain.CheckStatus(c.Status),
			Severity:       severity,
			Recommendation: c.Recommendation,
			Details:        c.Details,
		}
		cat.Checks = append(cat.Checks, verdict)
		cat.Total++

		switch verdict.Status {
		case domain.CheckPassed:
			cat.Passed++
		case domain.CheckFailed:
			cat.Failed++
		case domain.CheckWarning:
			cat.Warnings++
		}
	}
	return cat
}

// normalizeFreeform counts PASS/FAIL/WARN tokens line by line, case
// insensitively. A line is counted once, under the first token found in
// that order; there is no category breakdown for freeform output.
func normalizeFreeform(output []byte) domain.DeviceResult {
	var passed, failed, warnings int

	sc := bufio.NewScanner(bytes.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.ToUpper(sc.Text())
		switch {
		case strings.Contains(line, "PASS"):
			passed++
		case strings.Contains(line, "FAIL"):
			failed++
		case strings.Contains(line, "WARN"):
			warnings++
		}
	}

	total := passed + failed + warnings
	return domain.DeviceResult{
		Status: domain.RunCompleted,
		Summary: domain.Summary{
			TotalChecks:   total,
			PassedChecks:  passed,
			FailedChecks:  failed,
			WarningChecks: warnings,
			Score:         Score(passed, total),
		},
	}
}
