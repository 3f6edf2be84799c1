package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuneCost is one rune requirement of a spell cast.
type RuneCost struct {
	ItemID int32 `yaml:"item_id"`
	Count  int32 `yaml:"count"`
}

// SpellInfo defines one combat spell: rune costs and its flat max hit.
type SpellInfo struct {
	ID     int32      `yaml:"id"`
	Name   string     `yaml:"name"`
	Level  int        `yaml:"level"`
	MaxHit int        `yaml:"max_hit"`
	XP     int64      `yaml:"xp"` // base magic XP per cast, before damage bonus
	Runes  []RuneCost `yaml:"runes"`
}

type spellFile struct {
	Spells []*SpellInfo `yaml:"spells"`
}

// SpellTable holds spell definitions indexed by ID.
type SpellTable struct {
	byID map[int32]*SpellInfo
}

func (t *SpellTable) Get(id int32) *SpellInfo {
	return t.byID[id]
}

func (t *SpellTable) Count() int {
	return len(t.byID)
}

// LoadSpellTable loads spell definitions from a YAML file.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spells: %w", err)
	}
	return ParseSpellTable(raw)
}

func ParseSpellTable(raw []byte) (*SpellTable, error) {
	var f spellFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spells: %w", err)
	}
	t := &SpellTable{byID: make(map[int32]*SpellInfo, len(f.Spells))}
	for _, s := range f.Spells {
		t.byID[s.ID] = s
	}
	return t, nil
}
