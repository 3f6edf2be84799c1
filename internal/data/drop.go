package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DropItem is a single possible drop from an NPC kill.
type DropItem struct {
	ItemID int32 `yaml:"item_id"`
	Min    int32 `yaml:"min"`
	Max    int32 `yaml:"max"`
	Chance int   `yaml:"chance"` // out of 1,000,000 (100% = 1000000)
}

type npcDropEntry struct {
	NpcID int32      `yaml:"npc_id"`
	Items []DropItem `yaml:"items"`
}

type dropFile struct {
	// RareChance is the per-kill threshold (out of 1,000,000) that the rare
	// table is consulted INSTEAD OF the NPC's regular table. One roll decides
	// which single table is evaluated; the two are never combined.
	RareChance int            `yaml:"rare_chance"`
	Rare       []DropItem     `yaml:"rare"`
	Drops      []npcDropEntry `yaml:"drops"`
}

// DropTable holds per-NPC drop lists plus the shared rare table.
type DropTable struct {
	drops      map[int32][]DropItem
	rare       []DropItem
	rareChance int
}

// Get returns the regular drop list for an NPC template, or nil.
func (t *DropTable) Get(npcID int32) []DropItem {
	return t.drops[npcID]
}

// Rare returns the shared rare table and its selection threshold.
func (t *DropTable) Rare() ([]DropItem, int) {
	return t.rare, t.rareChance
}

func (t *DropTable) Count() int {
	return len(t.drops)
}

// LoadDropTable loads drop data from a YAML file.
func LoadDropTable(path string) (*DropTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read drops: %w", err)
	}
	return ParseDropTable(raw)
}

func ParseDropTable(raw []byte) (*DropTable, error) {
	var f dropFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse drops: %w", err)
	}
	t := &DropTable{
		drops:      make(map[int32][]DropItem, len(f.Drops)),
		rare:       f.Rare,
		rareChance: f.RareChance,
	}
	for _, entry := range f.Drops {
		t.drops[entry.NpcID] = entry.Items
	}
	return t, nil
}
