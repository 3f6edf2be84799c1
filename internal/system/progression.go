package system

import (
	"github.com/scaperune/sim/internal/core/event"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

// Progression 處理經驗值累積與升級。
// 等級永遠是經驗值表查表結果；衍生上限（最大生命、最大祈禱點）在這裡重算。
type Progression struct {
	player  *world.PlayerState
	bus     *event.Bus
	log     *zap.Logger
	expRate float64
}

func NewProgression(player *world.PlayerState, bus *event.Bus, log *zap.Logger, expRate float64) *Progression {
	if expRate <= 0 {
		expRate = 1
	}
	return &Progression{player: player, bus: bus, log: log, expRate: expRate}
}

// AddExperience 增加經驗值並檢查升級。負數一律拒絕、不變動任何狀態。
func (p *Progression) AddExperience(skill world.SkillID, amount int64) error {
	if skill < 0 || skill >= world.SkillCount {
		return ErrInvalidSkill
	}
	if amount < 0 {
		return ErrNegativeExperience
	}

	amount = int64(float64(amount) * p.expRate)
	sk := &p.player.Skills[skill]
	sk.XP += amount

	newLevel := world.LevelForXP(sk.XP)
	for sk.Level < newLevel {
		sk.Level++
		event.Emit(p.bus, event.LevelUp{Skill: skill.String(), NewLevel: sk.Level})
		p.log.Info("玩家升級",
			zap.String("skill", skill.String()),
			zap.Int("level", sk.Level),
			zap.Int64("xp", sk.XP),
		)
	}

	// 生命技能升級：最大生命 = 等級，當前生命不得超過上限
	if skill == world.SkillHitpoints && p.player.MaxHP < sk.Level {
		p.player.MaxHP = sk.Level
		if p.player.CurrentHP > p.player.MaxHP {
			p.player.CurrentHP = p.player.MaxHP
		}
	}

	// 祈禱技能升級：最大祈禱點 = 等級（單調遞增）
	if skill == world.SkillPrayer && p.player.Prayer.Max < sk.Level {
		p.player.Prayer.Max = sk.Level
	}

	return nil
}
