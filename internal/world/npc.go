package world

// NpcInfo is the mutable combat handle for one NPC. The scene collaborator
// owns its visual lifecycle; the combat engine mutates HP directly and flips
// Dead. Respawn countdowns are deferred re-enables driven by the respawn
// system, not polling scans.
type NpcInfo struct {
	ID         int32 // unique instance ID
	TemplateID int32
	Name       string

	Level    int
	HP       int
	MaxHP    int
	Attack   int // combat stat levels used by the retaliation roll
	Strength int
	Defense  int

	AttackBonus   int
	StrengthBonus int
	DefenseBonus  int

	Pos      Position
	SpawnPos Position

	Dead bool

	CorpseRemain  float64 // seconds until the corpse despawns
	RespawnDelay  float64 // seconds between despawn and respawn, from template
	RespawnRemain float64
}

// Respawn restores the NPC at its spawn point at full hits.
func (n *NpcInfo) Respawn() {
	n.Dead = false
	n.HP = n.MaxHP
	n.Pos = n.SpawnPos
	n.CorpseRemain = 0
	n.RespawnRemain = 0
}
