package config

import (
	"errors"
	"fmt"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// ProfileRegistry exposes named date ranges kept in an INI file:
//
//	[fy2024]
//	start = 2024-01-01
//	end   = 2024-12-31
// ErrProfileNotFound is wrapped by GetRange when no section carries the name.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileRegistry interface {
	GetProfiles() ([]string, error)
	GetRange(profile string) (domain.DateRange, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load range profiles: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles() ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetRange(profile string) (domain.DateRange, error) {
	section, err := r.cfg.GetSection(profile)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %s", ErrProfileNotFound, profile)
	}

	start := section.Key("start").String()
	end := section.Key("end").String()
	if start == "" || end == "" {
		return domain.DateRange{}, fmt.Errorf("profile %s must define start and end", profile)
	}

	dates, err := domain.ParseDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("profile %s: %w", profile, err)
	}
	return dates, nil
}
