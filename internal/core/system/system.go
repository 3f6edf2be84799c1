package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain queued commands
	PhaseUpdate                  // 1: combat exchanges, action resolution
	PhasePostUpdate              // 2: prayer drain, energy regen, respawn countdowns
	PhasePersist                 // 3: autosave snapshot flush
	PhaseCleanup                 // 4: remove finished sessions / corpses
)

// System is implemented by every engine registered on the Runner.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
