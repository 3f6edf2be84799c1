package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PrayerInfo defines one prayer: unlock level, per-second point cost and the
// exclusivity group it belongs to. At most one prayer per group is active.
// Effect names an optional combat effect the prayer grants while active.
type PrayerInfo struct {
	ID     int32   `yaml:"id"`
	Name   string  `yaml:"name"`
	Level  int     `yaml:"level"`
	Drain  float64 `yaml:"drain"` // points per second while active
	Group  string  `yaml:"group"`
	Effect string  `yaml:"effect"`
}

// EffectProtectMelee blocks all melee damage from NPC retaliation.
const EffectProtectMelee = "protect_melee"

type prayerFile struct {
	Prayers []*PrayerInfo `yaml:"prayers"`
}

// PrayerTable holds prayer definitions indexed by ID.
type PrayerTable struct {
	byID map[int32]*PrayerInfo
}

func (t *PrayerTable) Get(id int32) *PrayerInfo {
	return t.byID[id]
}

func (t *PrayerTable) Count() int {
	return len(t.byID)
}

// LoadPrayerTable loads prayer definitions from a YAML file.
func LoadPrayerTable(path string) (*PrayerTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prayers: %w", err)
	}
	return ParsePrayerTable(raw)
}

func ParsePrayerTable(raw []byte) (*PrayerTable, error) {
	var f prayerFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prayers: %w", err)
	}
	t := &PrayerTable{byID: make(map[int32]*PrayerInfo, len(f.Prayers))}
	for _, p := range f.Prayers {
		t.byID[p.ID] = p
	}
	return t, nil
}
