package sophos

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// SimulatedExecutor produces structured audit output without contacting a
// firewall. It exists for demo runs and offline environments where the
// audit script is unavailable. Output is deterministic for a given seed
// and target hostname.
type SimulatedExecutor struct {
	Seed int64
}

type simCheck struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation,omitempty"`
}

type simCategory struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Checks      []simCheck `json:"checks"`
}

var simCategories = []struct {
	key   string
	name  string
	check string
}{
	{"security_policies", "Security Policies", "Default policy review"},
	{"system_configuration", "System Configuration", "Admin service hardening"},
	{"network_settings", "Network Settings", "Legacy protocol exposure"},
	{"user_authentication", "User Authentication", "Password policy strength"},
	{"logging_configuration", "Logging Configuration", "Remote syslog forwarding"},
	{"update_status", "Update Status", "Firmware currency"},
	{"certificate_validation", "Certificate Validation", "Management certificate trust"},
	{"intrusion_prevention", "Intrusion Prevention", "IPS policy coverage"},
	{"web_filtering", "Web Filtering", "Category blocking baseline"},
	{"application_control", "Application Control", "Risky application policy"},
}

var simSeverities = []string{"critical", "high", "medium", "low", "info"}

func (e *SimulatedExecutor) Execute(_ context.Context, target domain.DeviceTarget) Raw {
	h := fnv.New64a()
	h.Write([]byte(target.Hostname))
	rng := rand.New(rand.NewSource(e.Seed + int64(h.Sum64())))

	checks := make(map[string]json.RawMessage, len(simCategories))
	order := make([]string, 0, len(simCategories))
	for _, cat := range simCategories {
		n := 2 + rng.Intn(4)
		sims := make([]simCheck, 0, n)
		for i := 0; i < n; i++ {
			chk := simCheck{
				Name:        fmt.Sprintf("%s #%d", cat.check, i+1),
				Description: fmt.Sprintf("Simulated %s check", cat.name),
				Status:      "passed",
				Severity:    simSeverities[rng.Intn(len(simSeverities))],
			}
			switch rng.Intn(10) {
			case 0, 1:
				chk.Status = "failed"
				chk.Recommendation = fmt.Sprintf("Review the %s settings on %s", cat.name, target.Hostname)
			case 2:
				chk.Status = "warning"
			}
			sims = append(sims, chk)
		}
		raw, _ := json.Marshal(simCategory{Name: cat.name, Description: fmt.Sprintf("%s checks", cat.name), Checks: sims})
		checks[cat.key] = raw
		order = append(order, cat.key)
	}

	// Assemble the document by hand so category order matches the fixed
	// checks-enabled ordering instead of Go map iteration order.
	var out []byte
	out = append(out, fmt.Sprintf(`{"timestamp":%q,"checks":{`, time.Now().UTC().Format(time.RFC3339))...)
	for i, key := range order {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, fmt.Sprintf("%q:", key)...)
		out = append(out, checks[key]...)
	}
	out = append(out, "}}"...)

	return Raw{Status: ExecCompleted, Stdout: out}
}
