package event

// Typed simulation events. Emitted by the engines, consumed by the
// presentation layer one tick later via Bus.DispatchAll.

// AttackHit is emitted for every landed attack, by either side.
type AttackHit struct {
	AttackerNpc bool  // false = player attacked the NPC
	TargetID    int32 // NPC object ID
	Damage      int
	Special     bool
}

// AttackMiss is emitted when an attack roll fails.
type AttackMiss struct {
	AttackerNpc bool
	TargetID    int32
}

// NpcDied is emitted once when a combat target reaches 0 hits.
type NpcDied struct {
	NpcID      int32
	TemplateID int32
	Name       string
}

// PlayerDied is emitted when the player's hitpoints reach 0.
type PlayerDied struct {
	KillerID int32
}

// LevelUp is emitted once per level gained.
type LevelUp struct {
	Skill    string
	NewLevel int
}

// ItemGained is emitted when an item lands in the inventory
// (drops, skilling yields, secondary yields).
type ItemGained struct {
	ItemID int32
	Name   string
	Count  int32
}

// ResourceDepleted is emitted when a gathering success empties a world resource.
type ResourceDepleted struct {
	ResourceID int32
	Family     string
}

// ResourceRespawned is emitted when a depleted resource becomes available again.
type ResourceRespawned struct {
	ResourceID int32
}

// PrayersExhausted is emitted when prayer points hit zero and every
// active prayer is force-deactivated.
type PrayersExhausted struct{}
