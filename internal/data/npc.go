package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NpcTemplate defines one NPC kind: combat stats and respawn timing.
type NpcTemplate struct {
	ID    int32  `yaml:"id"`
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
	HP    int    `yaml:"hp"`

	Attack   int `yaml:"attack"`
	Strength int `yaml:"strength"`
	Defense  int `yaml:"defense"`

	AttackBonus   int `yaml:"attack_bonus"`
	StrengthBonus int `yaml:"strength_bonus"`
	DefenseBonus  int `yaml:"defense_bonus"`

	RespawnSeconds float64 `yaml:"respawn_seconds"`
}

type npcFile struct {
	Npcs []*NpcTemplate `yaml:"npcs"`
}

// NpcTable holds NPC templates indexed by template ID.
type NpcTable struct {
	byID map[int32]*NpcTemplate
}

func (t *NpcTable) Get(id int32) *NpcTemplate {
	return t.byID[id]
}

func (t *NpcTable) Count() int {
	return len(t.byID)
}

// All calls fn for every template.
func (t *NpcTable) All(fn func(*NpcTemplate)) {
	for _, n := range t.byID {
		fn(n)
	}
}

// LoadNpcTable loads NPC templates from a YAML file.
func LoadNpcTable(path string) (*NpcTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npcs: %w", err)
	}
	return ParseNpcTable(raw)
}

func ParseNpcTable(raw []byte) (*NpcTable, error) {
	var f npcFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npcs: %w", err)
	}
	t := &NpcTable{byID: make(map[int32]*NpcTemplate, len(f.Npcs))}
	for _, n := range f.Npcs {
		t.byID[n.ID] = n
	}
	return t, nil
}
