package system

import (
	"time"

	coresys "github.com/scaperune/sim/internal/core/system"
	"github.com/scaperune/sim/internal/world"
)

// SpecialSystem 管理特殊攻擊能量池：每幀回復、閘門式消耗。
type SpecialSystem struct {
	player *world.PlayerState
}

func NewSpecialSystem(player *world.PlayerState, regenPerSec float64) *SpecialSystem {
	player.Special.RegenRate = regenPerSec
	return &SpecialSystem{player: player}
}

func (s *SpecialSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SpecialSystem) Update(dt time.Duration) {
	s.TickSeconds(dt.Seconds())
}

// TickSeconds 依經過秒數回復能量，上限 100。
func (s *SpecialSystem) TickSeconds(sec float64) {
	sp := &s.player.Special
	sp.Current += sp.RegenRate * sec
	if sp.Current > 100 {
		sp.Current = 100
	}
}

// Consume 消耗能量。不足時拒絕且不變動。
func (s *SpecialSystem) Consume(cost float64) error {
	sp := &s.player.Special
	if sp.Current < cost {
		return ErrInsufficientEnergy
	}
	sp.Current -= cost
	return nil
}
