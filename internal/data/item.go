package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemBonuses are the combat bonuses an item contributes while equipped.
// Missing fields stay zero.
type ItemBonuses struct {
	Attack   int `yaml:"attack"`
	Strength int `yaml:"strength"`
	Defense  int `yaml:"defense"`
	Ranged   int `yaml:"ranged"`
	Magic    int `yaml:"magic"`
}

// ItemInfo is one item template.
type ItemInfo struct {
	ID        int32  `yaml:"id"`
	Name      string `yaml:"name"`
	Stackable bool   `yaml:"stackable"`

	// Equipment fields. EquipSlot "" means the item cannot be worn.
	EquipSlot    string         `yaml:"equip_slot"`
	Category     string         `yaml:"category"` // weapon category: sword, axe, bow, staff, ...
	TwoHanded    bool           `yaml:"two_handed"`
	Bonuses      ItemBonuses    `yaml:"bonuses"`
	Requirements map[string]int `yaml:"requirements"` // skill name -> minimum level

	// Special is the key of this weapon's special attack in scripts/specials.lua.
	Special string `yaml:"special"`

	// Ranged pairing. Weapons declare the ammo class they fire;
	// ammunition declares its class and the flat max hit of the pairing.
	AmmoType     string `yaml:"ammo_type"`
	AmmoClass    string `yaml:"ammo_class"`
	RangedMaxHit int    `yaml:"ranged_max_hit"`

	// PrayerXP > 0 marks a buryable bone and its fixed XP grant.
	PrayerXP int64 `yaml:"prayer_xp"`
}

type itemFile struct {
	Items []*ItemInfo `yaml:"items"`
}

// ItemTable holds all item templates indexed by ID.
type ItemTable struct {
	byID map[int32]*ItemInfo
}

// Get returns the template for an item ID, or nil.
func (t *ItemTable) Get(id int32) *ItemInfo {
	return t.byID[id]
}

// Count returns the number of loaded templates.
func (t *ItemTable) Count() int {
	return len(t.byID)
}

// LoadItemTable loads item templates from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return ParseItemTable(raw)
}

// ParseItemTable decodes item templates from YAML bytes.
func ParseItemTable(raw []byte) (*ItemTable, error) {
	var f itemFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	t := &ItemTable{byID: make(map[int32]*ItemInfo, len(f.Items))}
	for _, it := range f.Items {
		if _, dup := t.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %d (%s)", it.ID, it.Name)
		}
		t.byID[it.ID] = it
	}
	return t, nil
}
