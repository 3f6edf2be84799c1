package system

import (
	"github.com/scaperune/sim/internal/core/event"
	"github.com/scaperune/sim/internal/core/rng"
	"github.com/scaperune/sim/internal/data"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

// AttemptOutcome 是一次採集/偷竊嘗試的結果。
type AttemptOutcome struct {
	Success     bool
	Reason      string
	Probability float64
	XP          int64
	YieldItem   int32
	YieldCount  int32
	Secondary   bool
}

// SkillActionSystem 是採礦/伐木/釣魚/偷竊/敏捷/生火共用的機率判定器。
// 等級閘門 → 成功率斜坡 → 伯努利取樣；成功才變動世界資源。
type SkillActionSystem struct {
	state   *world.State
	items   *data.ItemTable
	actions *data.ActionTable
	prog    *Progression
	rng     *rng.RNG
	bus     *event.Bus
	log     *zap.Logger
}

func NewSkillActionSystem(state *world.State, items *data.ItemTable, actions *data.ActionTable,
	prog *Progression, r *rng.RNG, bus *event.Bus, log *zap.Logger) *SkillActionSystem {
	return &SkillActionSystem{state: state, items: items, actions: actions, prog: prog, rng: r, bus: bus, log: log}
}

// SuccessChance 回傳有效成功率：base + (等級差) × increment，夾在
// [floor, ceiling] 與 [0, 1] 之間。等級差越大成功率單調不減。
func SuccessChance(a *data.ActionInfo, playerLevel int) float64 {
	p := a.Base + float64(playerLevel-a.Level)*a.Increment
	if p < a.Floor {
		p = a.Floor
	}
	if p > a.Ceiling {
		p = a.Ceiling
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// Attempt 對一個世界資源做一次嘗試。
func (s *SkillActionSystem) Attempt(resourceID int32) (*AttemptOutcome, error) {
	res := s.state.Resource(resourceID)
	if res == nil {
		return nil, ErrStaleTarget
	}
	if !res.Available {
		// 已被採空的資源：無害拒絕，不當成錯誤崩潰
		return nil, ErrStaleTarget
	}
	action := s.actions.Get(res.ActionID)
	if action == nil {
		return nil, ErrRequirementNotMet
	}
	skill := world.SkillByName(action.Family)
	if skill < 0 {
		return nil, ErrInvalidSkill
	}

	// 等級閘門：不足時直接失敗，不擲骰
	playerLevel := s.player().Level(skill)
	if playerLevel < action.Level {
		return nil, ErrRequirementNotMet
	}

	// 消耗性材料（生火的原木）在擲骰前檢查，不足時不變動
	if action.ConsumesItem != 0 && !s.player().Inv.Has(action.ConsumesItem, 1) {
		return nil, ErrInsufficientResource
	}

	p := SuccessChance(action, playerLevel)
	outcome := &AttemptOutcome{Probability: p}

	if !s.rng.Chance(p) {
		outcome.Reason = failReason(action.Family)
		// 敏捷失敗仍給一半經驗：嘗試本身就是訓練
		if action.Family == "agility" && action.XP > 0 {
			half := action.XP / 2
			if err := s.prog.AddExperience(skill, half); err == nil {
				outcome.XP = half
			}
		}
		return outcome, nil
	}

	// 成功：先佔住資源，產物放不進背包時回滾
	if action.RespawnSeconds > 0 {
		res.Deplete(action.RespawnSeconds)
	}
	if action.YieldItem != 0 {
		info := s.items.Get(action.YieldItem)
		if info == nil {
			res.Restore()
			return nil, ErrRequirementNotMet
		}
		if err := s.player().Inv.Add(info.ID, info.Name, info.Stackable, action.YieldCount); err != nil {
			res.Restore()
			return nil, err
		}
		outcome.YieldItem = info.ID
		outcome.YieldCount = action.YieldCount
		event.Emit(s.bus, event.ItemGained{ItemID: info.ID, Name: info.Name, Count: action.YieldCount})
	}
	if action.ConsumesItem != 0 {
		// 存量已事先檢查過
		_ = s.player().Inv.Consume(action.ConsumesItem, 1)
	}

	if err := s.prog.AddExperience(skill, action.XP); err != nil {
		return nil, err
	}
	outcome.Success = true
	outcome.XP = action.XP

	if action.RespawnSeconds > 0 {
		event.Emit(s.bus, event.ResourceDepleted{ResourceID: res.ID, Family: action.Family})
	}

	// 次要產物獨立擲骰（寶石、額外漁獲）；背包滿時靜默略過
	if sec := action.Secondary; sec != nil && s.rng.Chance(sec.Chance) {
		if info := s.items.Get(sec.ItemID); info != nil {
			if err := s.player().Inv.Add(info.ID, info.Name, info.Stackable, 1); err == nil {
				outcome.Secondary = true
				event.Emit(s.bus, event.ItemGained{ItemID: info.ID, Name: info.Name, Count: 1})
				if sec.XP > 0 {
					_ = s.prog.AddExperience(skill, sec.XP)
				}
			}
		}
	}

	return outcome, nil
}

func (s *SkillActionSystem) player() *world.PlayerState {
	return s.state.Player
}

// failReason 依家族回傳描述性的失敗原因。
func failReason(family string) string {
	switch family {
	case "mining":
		return "you fail to break off any ore"
	case "woodcutting":
		return "you fail to cut through the tree"
	case "fishing":
		return "the fish gets away"
	case "thieving":
		return "you fumble and come away empty-handed"
	case "agility":
		return "you slip on the obstacle"
	case "firemaking":
		return "the logs fail to catch light"
	default:
		return "the attempt fails"
	}
}
