// Package config loads the device inventory and optional credential
// profiles consumed by the audit pipeline.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// Firewall is one inventory entry. EnableHTTPS is a pointer so an absent
// key can default to true while an explicit false is preserved.
type Firewall struct {
	Name        string `mapstructure:"name"`
	Hostname    string `mapstructure:"hostname"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	EnableHTTPS *bool  `mapstructure:"enable_https"`
	VerifySSL   bool   `mapstructure:"verify_ssl"`
}

// AuditOptions are the run options read from the inventory file.
type AuditOptions struct {
	Script         string `mapstructure:"script"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RetryAttempts  uint   `mapstructure:"retry_attempts"`
	Simulate       bool   `mapstructure:"simulate"`
}

// Inventory is the parsed device inventory file.
type Inventory struct {
	Firewalls []Firewall   `mapstructure:"firewalls"`
	Audit     AuditOptions `mapstructure:"audit"`
}

// LoadInventory reads an inventory file (YAML, or anything viper
// understands) from the given path.
func LoadInventory(path string) (*Inventory, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}

	var inv Inventory
	if err := v.Unmarshal(&inv); err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}
	return &inv, nil
}

// Targets converts inventory entries into device targets with defaults
// applied: port 4444, HTTPS enabled, SSL verification off.
func (inv *Inventory) Targets() []domain.DeviceTarget {
	targets := make([]domain.DeviceTarget, 0, len(inv.Firewalls))
	for _, fw := range inv.Firewalls {
		target := domain.DeviceTarget{
			Name:      fw.Name,
			Hostname:  fw.Hostname,
			Port:      fw.Port,
			Username:  fw.Username,
			Password:  fw.Password,
			VerifySSL: fw.VerifySSL,
		}
		if target.Port == 0 {
			target.Port = domain.DefaultPort
		}
		if fw.EnableHTTPS == nil {
			target.EnableHTTPS = true
		} else {
			target.EnableHTTPS = *fw.EnableHTTPS
		}
		targets = append(targets, target)
	}
	return targets
}
