package system

import (
	"time"

	"github.com/scaperune/sim/internal/core/event"
	coresys "github.com/scaperune/sim/internal/core/system"
	"github.com/scaperune/sim/internal/data"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

// PrayerSystem 處理祈禱的啟用規則、點數流失與祭壇回復。
// 流失率永遠等於當前所有啟用祈禱的每秒消耗總和。
type PrayerSystem struct {
	player  *world.PlayerState
	prayers *data.PrayerTable
	items   *data.ItemTable
	prog    *Progression
	bus     *event.Bus
	log     *zap.Logger
}

func NewPrayerSystem(player *world.PlayerState, prayers *data.PrayerTable, items *data.ItemTable,
	prog *Progression, bus *event.Bus, log *zap.Logger) *PrayerSystem {
	return &PrayerSystem{player: player, prayers: prayers, items: items, prog: prog, bus: bus, log: log}
}

func (s *PrayerSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *PrayerSystem) Update(dt time.Duration) {
	s.TickSeconds(dt.Seconds())
}

// TickSeconds 依經過秒數流失祈禱點。歸零時強制關閉所有祈禱。
func (s *PrayerSystem) TickSeconds(sec float64) {
	pr := &s.player.Prayer
	if pr.DrainRate <= 0 {
		return
	}
	pr.Current -= pr.DrainRate * sec
	if pr.Current > 0 {
		return
	}
	pr.Current = 0
	for id := range pr.Active {
		delete(pr.Active, id)
	}
	pr.DrainRate = 0
	event.Emit(s.bus, event.PrayersExhausted{})
	s.log.Info("祈禱點耗盡，全部祈禱已關閉")
}

// CanActivate 檢查等級需求與剩餘點數。點數為零時一律失敗。
func (s *PrayerSystem) CanActivate(id int32) error {
	info := s.prayers.Get(id)
	if info == nil {
		return ErrRequirementNotMet
	}
	if s.player.Level(world.SkillPrayer) < info.Level {
		return ErrRequirementNotMet
	}
	if s.player.Prayer.Current <= 0 {
		return ErrRequirementNotMet
	}
	return nil
}

// Activate 啟用祈禱。同組互斥：先關閉同組已啟用者，結果永遠恰好一個。
func (s *PrayerSystem) Activate(id int32) error {
	if err := s.CanActivate(id); err != nil {
		return err
	}
	info := s.prayers.Get(id)
	pr := &s.player.Prayer
	for activeID := range pr.Active {
		other := s.prayers.Get(activeID)
		if other != nil && other.Group == info.Group {
			delete(pr.Active, activeID)
		}
	}
	pr.Active[id] = true
	s.Recompute()
	return nil
}

// Deactivate 關閉祈禱並重算流失率。未啟用時為無害操作。
func (s *PrayerSystem) Deactivate(id int32) {
	delete(s.player.Prayer.Active, id)
	s.Recompute()
}

// EffectActive 回報是否有任一啟用中的祈禱帶有指定戰鬥效果。
func (s *PrayerSystem) EffectActive(effect string) bool {
	for id := range s.player.Prayer.Active {
		if info := s.prayers.Get(id); info != nil && info.Effect == effect {
			return true
		}
	}
	return false
}

// Recompute 從啟用集合重新導出流失率。啟用集合被外部整批改寫時
// （例如讀檔還原）必須呼叫，流失率才會跟上。
func (s *PrayerSystem) Recompute() {
	total := 0.0
	for id := range s.player.Prayer.Active {
		if info := s.prayers.Get(id); info != nil {
			total += info.Drain
		}
	}
	s.player.Prayer.DrainRate = total
}

// BuryBones 消耗一個骨頭道具、給予固定經驗並重算最大祈禱點。
func (s *PrayerSystem) BuryBones(itemID int32) error {
	info := s.items.Get(itemID)
	if info == nil || info.PrayerXP <= 0 {
		return ErrRequirementNotMet
	}
	if !s.player.Inv.Has(itemID, 1) {
		return ErrInsufficientResource
	}
	if err := s.player.Inv.Consume(itemID, 1); err != nil {
		return ErrInsufficientResource
	}
	if err := s.prog.AddExperience(world.SkillPrayer, info.PrayerXP); err != nil {
		return err
	}
	// 最大祈禱點是祈禱等級的單調函數
	if lvl := s.player.Level(world.SkillPrayer); s.player.Prayer.Max < lvl {
		s.player.Prayer.Max = lvl
	}
	return nil
}

// RestoreAtAltar 無條件回滿祈禱點並清空啟用中的祈禱。
func (s *PrayerSystem) RestoreAtAltar() {
	pr := &s.player.Prayer
	pr.Current = float64(pr.Max)
	for id := range pr.Active {
		delete(pr.Active, id)
	}
	pr.DrainRate = 0
}
