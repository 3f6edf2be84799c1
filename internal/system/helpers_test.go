package system

import (
	"fmt"
	"testing"
	"time"

	"github.com/scaperune/sim/internal/core/event"
	"github.com/scaperune/sim/internal/core/rng"
	"github.com/scaperune/sim/internal/data"
	"github.com/scaperune/sim/internal/script"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

const itemsYAML = `
items:
  - { id: 1, name: Bronze sword, equip_slot: weapon, category: sword, bonuses: { attack: 7, strength: 6 } }
  - { id: 2, name: Iron scimitar, equip_slot: weapon, category: sword, bonuses: { attack: 15, strength: 14 }, requirements: { attack: 10 } }
  - { id: 3, name: Rune greatsword, equip_slot: weapon, category: sword, two_handed: true, bonuses: { attack: 60, strength: 66 } }
  - { id: 4, name: Dragon dagger, equip_slot: weapon, category: dagger, bonuses: { attack: 40, strength: 40 }, special: dragon_dagger }
  - { id: 5, name: Shortbow, equip_slot: weapon, category: bow, two_handed: true, ammo_type: arrow, bonuses: { ranged: 8 } }
  - { id: 6, name: Bronze arrow, stackable: true, ammo_class: arrow, ranged_max_hit: 4 }
  - { id: 7, name: Blunt arrow, stackable: true, ammo_class: arrow, ranged_max_hit: 0 }
  - { id: 8, name: Wooden shield, equip_slot: shield, bonuses: { defense: 5 } }
  - { id: 17, name: Apprentice staff, equip_slot: weapon, category: staff, bonuses: { magic: 10 } }
  - { id: 20, name: Coins, stackable: true }
  - { id: 21, name: Bones, prayer_xp: 18 }
  - { id: 23, name: Copper ore }
  - { id: 24, name: Iron ore }
  - { id: 25, name: Uncut sapphire }
  - { id: 26, name: Logs }
  - { id: 30, name: Air rune, stackable: true }
  - { id: 31, name: Mind rune, stackable: true }
`

const actionsYAML = `
actions:
  - { id: sure_rock, family: mining, level: 1, base: 1.0, increment: 0, floor: 1.0, ceiling: 1.0, xp: 18, yield_item: 23, respawn_seconds: 4 }
  - { id: iron_rock, family: mining, level: 15, base: 0.3, increment: 0.012, floor: 0.05, ceiling: 0.9, xp: 35, yield_item: 24 }
  - { id: gem_rock, family: mining, level: 1, base: 1.0, increment: 0, floor: 1.0, ceiling: 1.0, xp: 18, yield_item: 23, respawn_seconds: 4, secondary: { chance: 1.0, item_id: 25, xp: 50 } }
  - { id: doomed_obstacle, family: agility, level: 1, base: 0, increment: 0, floor: 0, ceiling: 0, xp: 30 }
  - { id: campfire_site, family: firemaking, level: 1, base: 1.0, increment: 0, floor: 1.0, ceiling: 1.0, xp: 40, consumes_item: 26, respawn_seconds: 10 }
`

const prayersYAML = `
prayers:
  - { id: 1, name: Thick Skin, level: 1, drain: 0.2, group: defense }
  - { id: 4, name: Rock Skin, level: 10, drain: 0.6, group: defense }
  - { id: 2, name: Burst of Strength, level: 4, drain: 0.2, group: strength }
  - { id: 7, name: Protect from Melee, level: 43, drain: 1.0, group: protection, effect: protect_melee }
`

const spellsYAML = `
spells:
  - id: 1
    name: Wind Strike
    level: 1
    max_hit: 2
    xp: 22
    runes:
      - { item_id: 30, count: 1 }
      - { item_id: 31, count: 1 }
  - id: 3
    name: Fire Blast
    level: 59
    max_hit: 16
    xp: 137
    runes:
      - { item_id: 30, count: 4 }
`

func testItems(t *testing.T) *data.ItemTable {
	t.Helper()
	tbl, err := data.ParseItemTable([]byte(itemsYAML))
	if err != nil {
		t.Fatalf("parse items: %v", err)
	}
	return tbl
}

func testActions(t *testing.T) *data.ActionTable {
	t.Helper()
	tbl, err := data.ParseActionTable([]byte(actionsYAML))
	if err != nil {
		t.Fatalf("parse actions: %v", err)
	}
	return tbl
}

func testPrayers(t *testing.T) *data.PrayerTable {
	t.Helper()
	tbl, err := data.ParsePrayerTable([]byte(prayersYAML))
	if err != nil {
		t.Fatalf("parse prayers: %v", err)
	}
	return tbl
}

func testSpells(t *testing.T) *data.SpellTable {
	t.Helper()
	tbl, err := data.ParseSpellTable([]byte(spellsYAML))
	if err != nil {
		t.Fatalf("parse spells: %v", err)
	}
	return tbl
}

// testDrops builds a drop table where the rare threshold is configurable and
// both tables hold one certain drop: sapphires when rare, bones otherwise.
func testDrops(t *testing.T, rareChance int) *data.DropTable {
	t.Helper()
	raw := fmt.Sprintf(`
rare_chance: %d
rare:
  - { item_id: 25, min: 1, max: 1, chance: 1000000 }
drops:
  - npc_id: 100
    items:
      - { item_id: 21, min: 1, max: 1, chance: 1000000 }
`, rareChance)
	tbl, err := data.ParseDropTable([]byte(raw))
	if err != nil {
		t.Fatalf("parse drops: %v", err)
	}
	return tbl
}

func setLevel(p *world.PlayerState, skill world.SkillID, level int) {
	p.Skills[skill] = world.Skill{Level: level, XP: world.XPForLevel(level)}
	if skill == world.SkillHitpoints {
		p.MaxHP = level
		p.CurrentHP = level
	}
	if skill == world.SkillPrayer {
		p.Prayer.Max = level
		p.Prayer.Current = float64(level)
	}
}

// combatRig wires every engine combat depends on, with a nop logger and a
// fixed seed so exchanges replay identically.
type combatRig struct {
	player  *world.PlayerState
	state   *world.State
	bus     *event.Bus
	items   *data.ItemTable
	prog    *Progression
	equip   *EquipSystem
	prayer  *PrayerSystem
	special *SpecialSystem
	scripts *script.Engine
	combat  *CombatSystem
}

func newCombatRig(t *testing.T, seed int64, drops *data.DropTable) *combatRig {
	t.Helper()
	log := zap.NewNop()
	player := world.NewPlayerState("tester")
	state := world.NewState(player)
	bus := event.NewBus()
	items := testItems(t)

	prog := NewProgression(player, bus, log, 1)
	equip := NewEquipSystem(player, items, log)
	prayer := NewPrayerSystem(player, testPrayers(t), items, prog, bus, log)
	special := NewSpecialSystem(player, 100.0/300.0)

	scripts, err := script.NewEngine(t.TempDir(), log)
	if err != nil {
		t.Fatalf("scripts: %v", err)
	}
	t.Cleanup(scripts.Close)

	if drops == nil {
		drops = testDrops(t, 0)
	}
	combat := NewCombatSystem(CombatDeps{
		State:   state,
		Items:   items,
		Spells:  testSpells(t),
		Drops:   drops,
		Scripts: scripts,
		Equip:   equip,
		Prog:    prog,
		Prayer:  prayer,
		Special: special,
		RNG:     rng.New(seed),
		Bus:     bus,
		Log:     log,

		Interval:    time.Second,
		CorpseGrace: 2,
		DropRate:    1,
	})

	return &combatRig{
		player: player, state: state, bus: bus, items: items,
		prog: prog, equip: equip, prayer: prayer, special: special,
		scripts: scripts, combat: combat,
	}
}

// spawnNpc registers a template-100 NPC with the given stats.
func (r *combatRig) spawnNpc(id int32, hp, attack, strength, defense int) *world.NpcInfo {
	npc := &world.NpcInfo{
		ID:         id,
		TemplateID: 100,
		Name:       "Test goblin",
		Level:      5,
		HP:         hp,
		MaxHP:      hp,
		Attack:     attack,
		Strength:   strength,
		Defense:    defense,
		Pos:        world.Position{X: 10, Y: 10},
		SpawnPos:   world.Position{X: 10, Y: 10},

		RespawnDelay: 20,
	}
	r.state.AddNpc(npc)
	return npc
}

// drain collects every event of type T emitted so far.
func drain[T any](bus *event.Bus) []T {
	var out []T
	event.Subscribe(bus, func(ev T) { out = append(out, ev) })
	bus.SwapBuffers()
	bus.DispatchAll()
	return out
}
