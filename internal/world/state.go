package world

// State is the root of all mutable simulation state: the player aggregate
// plus the NPC handles and world resources the engines act on.
// Accessed only from the loop goroutine — no locks needed.
type State struct {
	Player    *PlayerState
	npcs      map[int32]*NpcInfo
	resources map[int32]*Resource
}

func NewState(player *PlayerState) *State {
	return &State{
		Player:    player,
		npcs:      make(map[int32]*NpcInfo),
		resources: make(map[int32]*Resource),
	}
}

// AddNpc registers an NPC handle.
func (s *State) AddNpc(n *NpcInfo) {
	s.npcs[n.ID] = n
}

// Npc returns the handle for an NPC instance, or nil.
func (s *State) Npc(id int32) *NpcInfo {
	return s.npcs[id]
}

// AllNpcs calls fn for every registered NPC.
func (s *State) AllNpcs(fn func(*NpcInfo)) {
	for _, n := range s.npcs {
		fn(n)
	}
}

// AddResource registers a world resource.
func (s *State) AddResource(r *Resource) {
	s.resources[r.ID] = r
}

// Resource returns a world resource, or nil.
func (s *State) Resource(id int32) *Resource {
	return s.resources[id]
}

// AllResources calls fn for every registered resource.
func (s *State) AllResources(fn func(*Resource)) {
	for _, r := range s.resources {
		fn(r)
	}
}
