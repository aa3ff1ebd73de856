// Package stats holds the embedded legend and weapon stat sheets.
// The sheets are static content shipped with the binary; lookups are by
// display name or any listed alias.
package stats

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed legends.yaml
var legendsYAML []byte

//go:embed weapons.yaml
var weaponsYAML []byte

// Legend is one row of the legend stat sheet.
type Legend struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Class    string   `yaml:"class"`
	Tactical string   `yaml:"tactical"`
	Passive  string   `yaml:"passive"`
	Ultimate string   `yaml:"ultimate"`
}

// Weapon is one row of the weapon stat sheet.
type Weapon struct {
	Name       string   `yaml:"name"`
	Aliases    []string `yaml:"aliases"`
	Type       string   `yaml:"type"`
	Ammo       string   `yaml:"ammo"`
	BodyDamage int      `yaml:"body_damage"`
	HeadDamage int      `yaml:"head_damage"`
}

// Sheet indexes the embedded stat sheets for name lookup.
type Sheet struct {
	legends []Legend
	weapons []Weapon
	byName  map[string]any // normalized name/alias -> *Legend or *Weapon
}

// Load parses the embedded YAML sheets. Called once at startup; a parse
// failure is a build-content bug and aborts boot.
func Load() (*Sheet, error) {
	s := &Sheet{byName: make(map[string]any)}

	if err := yaml.Unmarshal(legendsYAML, &s.legends); err != nil {
		return nil, fmt.Errorf("parse legends sheet: %w", err)
	}
	if err := yaml.Unmarshal(weaponsYAML, &s.weapons); err != nil {
		return nil, fmt.Errorf("parse weapons sheet: %w", err)
	}

	for i := range s.legends {
		l := &s.legends[i]
		s.byName[normalize(l.Name)] = l
		for _, a := range l.Aliases {
			s.byName[normalize(a)] = l
		}
	}
	for i := range s.weapons {
		w := &s.weapons[i]
		s.byName[normalize(w.Name)] = w
		for _, a := range w.Aliases {
			s.byName[normalize(a)] = w
		}
	}

	return s, nil
}

// Legend returns the legend sheet row for name or any of its aliases.
func (s *Sheet) Legend(name string) (*Legend, bool) {
	l, ok := s.byName[normalize(name)].(*Legend)
	return l, ok
}

// Weapon returns the weapon sheet row for name or any of its aliases.
func (s *Sheet) Weapon(name string) (*Weapon, bool) {
	w, ok := s.byName[normalize(name)].(*Weapon)
	return w, ok
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
