package system

import (
	"time"

	"github.com/scaperune/sim/internal/core/event"
	coresys "github.com/scaperune/sim/internal/core/system"
	"github.com/scaperune/sim/internal/world"
)

// RespawnSystem 處理延遲重生倒數：NPC 先走屍體寬限期、再走重生計時；
// 世界資源（礦石、樹、漁點）採空後倒數完畢即恢復可用。
// 重生是延遲式的重新啟用，不是輪詢掃描。
type RespawnSystem struct {
	state *world.State
	bus   *event.Bus
}

func NewRespawnSystem(state *world.State, bus *event.Bus) *RespawnSystem {
	return &RespawnSystem{state: state, bus: bus}
}

func (s *RespawnSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *RespawnSystem) Update(dt time.Duration) {
	s.TickSeconds(dt.Seconds())
}

func (s *RespawnSystem) TickSeconds(sec float64) {
	s.state.AllNpcs(func(npc *world.NpcInfo) {
		if !npc.Dead {
			return
		}
		// 第一階段：屍體寬限期，死亡動畫播完才移除
		if npc.CorpseRemain > 0 {
			npc.CorpseRemain -= sec
			return
		}
		// 第二階段：重生倒數
		if npc.RespawnRemain > 0 {
			npc.RespawnRemain -= sec
			if npc.RespawnRemain <= 0 {
				npc.Respawn()
			}
		}
	})

	s.state.AllResources(func(res *world.Resource) {
		if res.Available {
			return
		}
		res.RespawnRemain -= sec
		if res.RespawnRemain <= 0 {
			res.Restore()
			event.Emit(s.bus, event.ResourceRespawned{ResourceID: res.ID})
		}
	})
}
