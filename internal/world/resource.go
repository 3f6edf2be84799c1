package world

// Resource is one gatherable world object (rock, tree, fishing spot, chest).
// Depleted by the skill action engine on success, re-enabled by the respawn
// system after its action's respawn duration.
type Resource struct {
	ID       int32
	ActionID string // key into the action table
	Family   string
	Pos      Position

	Available     bool
	RespawnRemain float64 // seconds; > 0 only while depleted
}

// Deplete marks the resource unavailable for the given respawn duration.
func (r *Resource) Deplete(respawnSeconds float64) {
	r.Available = false
	r.RespawnRemain = respawnSeconds
}

// Restore undoes a Deplete (inventory-full rollback path).
func (r *Resource) Restore() {
	r.Available = true
	r.RespawnRemain = 0
}
