package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecondaryYield is an independent bonus roll on a successful attempt
// (gems from rocks, bonus catches, bird nests).
type SecondaryYield struct {
	Chance float64 `yaml:"chance"` // 0..1, rolled independently of the main yield
	ItemID int32   `yaml:"item_id"`
	XP     int64   `yaml:"xp"`
}

// ActionInfo describes one skilling action: the level gate, the success
// probability ramp and what a success produces.
type ActionInfo struct {
	ID     string `yaml:"id"`
	Family string `yaml:"family"` // mining, woodcutting, fishing, thieving, agility, firemaking
	Level  int    `yaml:"level"`

	// Success probability: base + (playerLevel - Level) * increment,
	// clamped to [floor, ceiling].
	Base      float64 `yaml:"base"`
	Increment float64 `yaml:"increment"`
	Floor     float64 `yaml:"floor"`
	Ceiling   float64 `yaml:"ceiling"`

	XP         int64 `yaml:"xp"`
	YieldItem  int32 `yaml:"yield_item"` // 0 = no item (agility obstacles, firemaking)
	YieldCount int32 `yaml:"yield_count"`

	// ConsumesItem is removed from the inventory on success (logs for firemaking).
	ConsumesItem int32 `yaml:"consumes_item"`

	RespawnSeconds float64 `yaml:"respawn_seconds"`

	Secondary *SecondaryYield `yaml:"secondary"`
}

type actionFile struct {
	Actions []*ActionInfo `yaml:"actions"`
}

// ActionTable holds skilling action definitions indexed by string ID.
type ActionTable struct {
	byID map[string]*ActionInfo
}

func (t *ActionTable) Get(id string) *ActionInfo {
	return t.byID[id]
}

func (t *ActionTable) Count() int {
	return len(t.byID)
}

// LoadActionTable loads skilling actions from a YAML file.
func LoadActionTable(path string) (*ActionTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}
	return ParseActionTable(raw)
}

func ParseActionTable(raw []byte) (*ActionTable, error) {
	var f actionFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse actions: %w", err)
	}
	t := &ActionTable{byID: make(map[string]*ActionInfo, len(f.Actions))}
	for _, a := range f.Actions {
		if a.YieldCount == 0 && a.YieldItem != 0 {
			a.YieldCount = 1
		}
		t.byID[a.ID] = a
	}
	return t, nil
}
