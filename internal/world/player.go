package world

// Position is a world-space tile coordinate supplied by the scene collaborator.
type Position struct {
	X int32
	Y int32
}

// Adjacent reports whether two positions are within melee reach
// (Chebyshev distance <= 1).
func (p Position) Adjacent(other Position) bool {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		dx = dy
	}
	return dx <= 1
}

// PrayerState tracks prayer points and the set of active prayers.
// DrainRate is always the sum of active prayers' per-second costs.
type PrayerState struct {
	Current   float64
	Max       int
	Active    map[int32]bool
	DrainRate float64
}

// SpecialEnergy is the shared special-attack pool, 0..100 percent.
type SpecialEnergy struct {
	Current   float64
	RegenRate float64 // percent per second
}

// PlayerState is the single owned aggregate holding everything the engines
// mutate. Created at session start or load, persisted as a whole snapshot.
// Mutated only through the coordinator — loop goroutine only, no locks.
type PlayerState struct {
	Name string

	Skills    [SkillCount]Skill
	CurrentHP int
	MaxHP     int

	Pos   Position
	Style CombatStyle

	Prayer  PrayerState
	Special SpecialEnergy

	Inv   *Inventory
	Equip *Equipment

	// Transient selections driven by the UI. Not persisted.
	SelectedSpell int32 // 0 = autocast off, melee/ranged resolution applies

	// Progress flags set by content (quest steps, one-time unlocks).
	Flags map[string]bool
}

// NewPlayerState creates a fresh character: level 1 in everything except
// hitpoints, which starts at level 10 with its threshold XP.
func NewPlayerState(name string) *PlayerState {
	p := &PlayerState{
		Name:  name,
		Inv:   NewInventory(),
		Equip: NewEquipment(),
		Flags: make(map[string]bool),
	}
	for i := range p.Skills {
		p.Skills[i] = Skill{Level: 1, XP: 0}
	}
	p.Skills[SkillHitpoints] = Skill{Level: 10, XP: XPForLevel(10)}
	p.CurrentHP = 10
	p.MaxHP = 10
	p.Prayer = PrayerState{
		Current: 1,
		Max:     1,
		Active:  make(map[int32]bool),
	}
	p.Special = SpecialEnergy{Current: 100}
	return p
}

// Level returns the current level of a skill.
func (p *PlayerState) Level(skill SkillID) int {
	if skill < 0 || skill >= SkillCount {
		return 0
	}
	return p.Skills[skill].Level
}

// CombatLevel is always derived from the live skills, never cached.
func (p *PlayerState) CombatLevel() int {
	return CombatLevel(&p.Skills)
}

// Dead reports whether the player is out of hitpoints.
func (p *PlayerState) Dead() bool {
	return p.CurrentHP <= 0
}
