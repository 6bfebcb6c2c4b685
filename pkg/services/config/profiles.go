package config

import (
	"gopkg.in/ini.v1"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/models/domain"
)

// Profiles holds per-device credentials loaded from an INI file so
// passwords can live outside the inventory. Section names match device
// names from the inventory:
//
//	[branch-fw]
//	username = auditor
//	password = s3cret
type Profiles struct {
	cfg *ini.File
}

func LoadProfiles(path string) (*Profiles, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &Profiles{cfg: cfg}, nil
}

// Names lists the profile sections that carry at least one key.
func (p *Profiles) Names() []string {
	var names []string
	for _, section := range p.cfg.Sections() {
		if len(section.Keys()) > 0 {
			names = append(names, section.Name())
		}
	}
	return names
}

// Apply returns a copy of targets with credentials overridden wherever a
// matching profile section provides them. Targets without a profile are
// returned unchanged.
func (p *Profiles) Apply(targets []domain.DeviceTarget) []domain.DeviceTarget {
	out := make([]domain.DeviceTarget, len(targets))
	copy(out, targets)

	for i, target := range out {
		if !p.cfg.HasSection(target.Name) {
			continue
		}
		section := p.cfg.Section(target.Name)
		if username := section.Key("username").String(); username != "" {
			out[i].Username = username
		}
		if password := section.Key("password").String(); password != "" {
			out[i].Password = password
		}
	}
	return out
}
