// Package sophos wraps the official Sophos Firewall Audit tool
// (https://github.com/sophos/sophos-firewall-audit) behind an Executor
// interface so the pipeline can run against the real tool, a simulator,
// or a test double interchangeably.
package sophos

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// firewallEntry mirrors one entry of the `firewalls` list in the audit
// tool's YAML configuration.
type firewallEntry struct {
	Name        string `yaml:"name"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	EnableHTTPS bool   `yaml:"enable_https"`
	VerifySSL   bool   `yaml:"verify_ssl"`
}

type auditOptions struct {
	OutputFormat      string `yaml:"output_format"`
	IncludeSensitive  bool   `yaml:"include_sensitive"`
	ParallelExecution bool   `yaml:"parallel_execution"`
	Timeout           int    `yaml:"timeout"`
	RetryAttempts     int    `yaml:"retry_attempts"`
}

// enabledChecks is the fixed checks block of the audit configuration. A
// struct rather than a map keeps the emitted key order stable.
type enabledChecks struct {
	SecurityPolicies      bool `yaml:"security_policies"`
	SystemConfiguration   bool `yaml:"system_configuration"`
	NetworkSettings       bool `yaml:"network_settings"`
	UserAuthentication    bool `yaml:"user_authentication"`
	LoggingConfiguration  bool `yaml:"logging_configuration"`
	UpdateStatus          bool `yaml:"update_status"`
	CertificateValidation bool `yaml:"certificate_validation"`
	IntrusionPrevention   bool `yaml:"intrusion_prevention"`
	WebFiltering          bool `yaml:"web_filtering"`
	ApplicationControl    bool `yaml:"application_control"`
}

type auditConfig struct {
	Firewalls    []firewallEntry `yaml:"firewalls"`
	AuditOptions auditOptions    `yaml:"audit_options"`
	Checks       enabledChecks   `yaml:"checks"`
}

func newAuditConfig(target domain.DeviceTarget) auditConfig {
	name := target.Name
	if name == "" {
		name = "Firewall"
	}
	port := target.Port
	if port == 0 {
		port = domain.DefaultPort
	}
	return auditConfig{
		Firewalls: []firewallEntry{{
			Name:        name,
			Host:        target.Hostname,
			Port:        port,
			Username:    target.Username,
			Password:    target.Password,
			EnableHTTPS: target.EnableHTTPS,
			VerifySSL:   target.VerifySSL,
		}},
		AuditOptions: auditOptions{
			OutputFormat:      "json",
			IncludeSensitive:  false,
			ParallelExecution: true,
			Timeout:           300,
			RetryAttempts:     3,
		},
		Checks: enabledChecks{
			SecurityPolicies:      true,
			SystemConfiguration:   true,
			NetworkSettings:       true,
			UserAuthentication:    true,
			LoggingConfiguration:  true,
			UpdateStatus:          true,
			CertificateValidation: true,
			IntrusionPrevention:   true,
			WebFiltering:          true,
			ApplicationControl:    true,
		},
	}
}

// WriteAuditConfig renders the tool configuration for one device into
// dir/audit_config.yaml and returns its path.
func WriteAuditConfig(dir string, target domain.DeviceTarget) (string, error) {
	data, err := yaml.Marshal(newAuditConfig(target))
	if err != nil {
		return "", fmt.Errorf("marshal audit config: %w", err)
	}

	path := filepath.Join(dir, "audit_config.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write audit config: %w", err)
	}
	return path, nil
}
