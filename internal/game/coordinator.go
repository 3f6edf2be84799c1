// Package game 提供模擬核心的單一寫入者門面：所有狀態變更都經過
// Coordinator，且只能由驅動 Tick 的那個迴圈 goroutine 呼叫。
// 外層（UI、腳本、測試）只拿到結構化的 Result，錯誤不外洩。
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/scaperune/sim/internal/config"
	"github.com/scaperune/sim/internal/core/event"
	"github.com/scaperune/sim/internal/core/rng"
	coresys "github.com/scaperune/sim/internal/core/system"
	"github.com/scaperune/sim/internal/data"
	"github.com/scaperune/sim/internal/persist"
	"github.com/scaperune/sim/internal/script"
	"github.com/scaperune/sim/internal/system"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

// Tables 聚合全部唯讀模板表，啟動時從 YAML 載入後不再變動。
type Tables struct {
	Items   *data.ItemTable
	Npcs    *data.NpcTable
	Drops   *data.DropTable
	Prayers *data.PrayerTable
	Spells  *data.SpellTable
	Actions *data.ActionTable
}

// Coordinator 持有世界狀態與所有引擎，依固定節拍推進模擬。
type Coordinator struct {
	cfg   *config.Config
	log   *zap.Logger
	state *world.State
	bus   *event.Bus
	rng   *rng.RNG

	runner *coresys.Runner
	tables Tables

	prog    *system.Progression
	equip   *system.EquipSystem
	prayer  *system.PrayerSystem
	special *system.SpecialSystem
	actions *system.SkillActionSystem
	combat  *system.CombatSystem

	store *persist.SnapshotStore

	nextNpcID      int32
	nextResourceID int32
}

// New 組裝一個完整的模擬核心。store 可為 nil（無持久化的測試模式）。
func New(cfg *config.Config, player *world.PlayerState, tables Tables,
	scripts *script.Engine, store *persist.SnapshotStore, log *zap.Logger) *Coordinator {

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	state := world.NewState(player)
	bus := event.NewBus()
	r := rng.New(seed)
	runner := coresys.NewRunner()

	prog := system.NewProgression(player, bus, log, cfg.Rates.ExpRate)
	equip := system.NewEquipSystem(player, tables.Items, log)
	prayer := system.NewPrayerSystem(player, tables.Prayers, tables.Items, prog, bus, log)
	special := system.NewSpecialSystem(player, cfg.Simulation.SpecialRegenPerSec)
	actions := system.NewSkillActionSystem(state, tables.Items, tables.Actions, prog, r, bus, log)
	combat := system.NewCombatSystem(system.CombatDeps{
		State:   state,
		Items:   tables.Items,
		Spells:  tables.Spells,
		Drops:   tables.Drops,
		Scripts: scripts,
		Equip:   equip,
		Prog:    prog,
		Prayer:  prayer,
		Special: special,
		RNG:     r,
		Bus:     bus,
		Log:     log,

		Interval:    cfg.Simulation.CombatInterval,
		CorpseGrace: cfg.Simulation.CorpseGraceSeconds,
		DropRate:    cfg.Rates.DropRate,
	})

	runner.Register(combat)
	runner.Register(prayer)
	runner.Register(special)
	runner.Register(system.NewRespawnSystem(state, bus))
	if store != nil && cfg.Save.AutosaveInterval > 0 {
		runner.Register(&autosaveSystem{
			store: store, player: player, log: log,
			interval: cfg.Save.AutosaveInterval,
		})
	}

	return &Coordinator{
		cfg:    cfg,
		log:    log,
		state:  state,
		bus:    bus,
		rng:    r,
		runner: runner,
		tables: tables,

		prog:    prog,
		equip:   equip,
		prayer:  prayer,
		special: special,
		actions: actions,
		combat:  combat,

		store: store,
	}
}

// ==================== 節拍 ====================

// Tick 推進模擬一個節拍：先把上個節拍發出的事件派送給訂閱者，
// 再依階段順序跑所有引擎。只能由迴圈 goroutine 呼叫。
func (c *Coordinator) Tick(dt time.Duration) {
	c.bus.SwapBuffers()
	c.bus.DispatchAll()
	c.runner.Tick(dt)
}

// ==================== 世界組裝 ====================

// SpawnNpc 從模板生成一隻 NPC 並放進世界。未知模板回傳 nil。
func (c *Coordinator) SpawnNpc(templateID int32, pos world.Position) *world.NpcInfo {
	tmpl := c.tables.Npcs.Get(templateID)
	if tmpl == nil {
		c.log.Warn("生成: 未知的 NPC 模板", zap.Int32("template_id", templateID))
		return nil
	}
	c.nextNpcID++
	npc := &world.NpcInfo{
		ID:         c.nextNpcID,
		TemplateID: tmpl.ID,
		Name:       tmpl.Name,
		Level:      tmpl.Level,
		HP:         tmpl.HP,
		MaxHP:      tmpl.HP,

		Attack:   tmpl.Attack,
		Strength: tmpl.Strength,
		Defense:  tmpl.Defense,

		AttackBonus:   tmpl.AttackBonus,
		StrengthBonus: tmpl.StrengthBonus,
		DefenseBonus:  tmpl.DefenseBonus,

		Pos:          pos,
		SpawnPos:     pos,
		RespawnDelay: tmpl.RespawnSeconds,
	}
	c.state.AddNpc(npc)
	return npc
}

// SpawnResource 放置一個可採集資源（礦石、樹、漁點、障礙）。
func (c *Coordinator) SpawnResource(actionID string, pos world.Position) *world.Resource {
	action := c.tables.Actions.Get(actionID)
	if action == nil {
		c.log.Warn("生成: 未知的採集動作", zap.String("action_id", actionID))
		return nil
	}
	c.nextResourceID++
	res := &world.Resource{
		ID:        c.nextResourceID,
		ActionID:  actionID,
		Family:    action.Family,
		Pos:       pos,
		Available: true,
	}
	c.state.AddResource(res)
	return res
}

// ==================== 進度 ====================

// AddExperience 直接給予經驗（任務獎勵、除錯指令）。
func (c *Coordinator) AddExperience(skill world.SkillID, amount int64) Result {
	if err := c.prog.AddExperience(skill, amount); err != nil {
		return fail(err)
	}
	return ok(fmt.Sprintf("%s +%d xp", skill, amount))
}

// ==================== 背包 ====================

// GiveItem 把模板表中的道具放進背包。
func (c *Coordinator) GiveItem(itemID int32, count int32) Result {
	info := c.tables.Items.Get(itemID)
	if info == nil {
		return Result{Code: CodeValidation, Message: fmt.Sprintf("unknown item %d", itemID)}
	}
	if err := c.state.Player.Inv.Add(info.ID, info.Name, info.Stackable, count); err != nil {
		return fail(err)
	}
	return ok(fmt.Sprintf("%s x%d", info.Name, count))
}

// RemoveItem 從指定背包格移除數量（丟棄）。
func (c *Coordinator) RemoveItem(slot int, count int32) Result {
	removed, err := c.state.Player.Inv.RemoveAt(slot, count)
	if err != nil {
		return fail(err)
	}
	return ok(fmt.Sprintf("removed %d", removed))
}

// MoveItem 搬移/合併/交換兩個背包格。
func (c *Coordinator) MoveItem(from, to int) Result {
	if err := c.state.Player.Inv.Move(from, to); err != nil {
		return fail(err)
	}
	return ok("moved")
}

// ==================== 裝備 ====================

func (c *Coordinator) Equip(invSlot int) Result {
	if err := c.equip.Equip(invSlot); err != nil {
		return fail(err)
	}
	return ok("equipped")
}

func (c *Coordinator) Unequip(slot world.EquipSlot) Result {
	if err := c.equip.Unequip(slot); err != nil {
		return fail(err)
	}
	return ok("unequipped")
}

// SetCombatStyle 切換戰鬥方式。對當前武器類別不合法時拒絕。
func (c *Coordinator) SetCombatStyle(style world.CombatStyle) Result {
	category := ""
	if wpn := c.state.Player.Equip.Weapon(); wpn != nil {
		if info := c.tables.Items.Get(wpn.ItemID); info != nil {
			category = info.Category
		}
	}
	if !world.StyleLegal(category, style) {
		return Result{Code: CodeValidation,
			Message: fmt.Sprintf("%s style not available with this weapon", style)}
	}
	c.state.Player.Style = style
	return ok(style.String())
}

// ==================== 祈禱 ====================

func (c *Coordinator) ActivatePrayer(id int32) Result {
	if err := c.prayer.Activate(id); err != nil {
		return fail(err)
	}
	return ok("prayer activated")
}

// DeactivatePrayer 關閉祈禱。未啟用時也算成功（冪等）。
func (c *Coordinator) DeactivatePrayer(id int32) Result {
	c.prayer.Deactivate(id)
	return ok("prayer deactivated")
}

func (c *Coordinator) BuryBones(itemID int32) Result {
	if err := c.prayer.BuryBones(itemID); err != nil {
		return fail(err)
	}
	return ok("buried")
}

func (c *Coordinator) RestoreAtAltar() Result {
	c.prayer.RestoreAtAltar()
	return ok("prayer restored")
}

// ==================== 戰鬥 ====================

func (c *Coordinator) StartCombat(targetID int32) Result {
	if err := c.combat.Engage(targetID); err != nil {
		return fail(err)
	}
	return ok("engaged")
}

func (c *Coordinator) StopCombat() Result {
	c.combat.Disengage()
	return ok("disengaged")
}

// SelectSpell 設定自動施法的法術；0 取消。
func (c *Coordinator) SelectSpell(spellID int32) Result {
	if err := c.combat.SelectSpell(spellID); err != nil {
		return fail(err)
	}
	return ok("spell selected")
}

// PerformSpecialAttack 施放裝備武器的特殊攻擊，取代一次普通擲骰。
func (c *Coordinator) PerformSpecialAttack() Result {
	msg, err := c.combat.PerformSpecial()
	if err != nil {
		return fail(err)
	}
	if msg == "" {
		msg = "special attack unleashed"
	}
	return ok(msg)
}

// ==================== 採集 ====================

// AttemptAction 對世界資源做一次技能嘗試（採礦、伐木、釣魚、
// 偷竊、敏捷、生火）。失敗的嘗試是正常結果，不是錯誤。
func (c *Coordinator) AttemptAction(resourceID int32) Result {
	outcome, err := c.actions.Attempt(resourceID)
	if err != nil {
		return fail(err)
	}
	if !outcome.Success {
		return Result{OK: true, Code: CodeOK, Message: outcome.Reason}
	}
	return ok(fmt.Sprintf("success (+%d xp)", outcome.XP))
}

// ==================== 持久化 ====================

// Save 立即寫一份完整快照。
func (c *Coordinator) Save(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(ctx, c.state.Player)
}

// Load 讀取最新快照並覆蓋玩家狀態。沒有快照時回傳 persist.ErrNoSnapshot。
func (c *Coordinator) Load(ctx context.Context) error {
	if c.store == nil {
		return persist.ErrNoSnapshot
	}
	snap, err := c.store.LoadLatest(ctx, c.state.Player.Name)
	if err != nil {
		return err
	}
	snap.Apply(c.state.Player)
	// 快照只存啟用集合，流失率必須從祈禱表重新導出
	c.prayer.Recompute()
	return nil
}

// ==================== 唯讀存取 ====================

func (c *Coordinator) Player() *world.PlayerState { return c.state.Player }

func (c *Coordinator) World() *world.State { return c.state }

func (c *Coordinator) Bus() *event.Bus { return c.bus }

// Session 回傳當前戰鬥會話，可能為 nil。
func (c *Coordinator) Session() *system.Session { return c.combat.Session() }

// Bonuses 回傳當前裝備加成總和。
func (c *Coordinator) Bonuses() world.Bonuses { return c.equip.Bonuses() }

// ==================== 自動存檔 ====================

// autosaveSystem 在 Persist 階段按固定間隔寫快照。
// 存檔失敗只記錄，不中斷模擬。
type autosaveSystem struct {
	store    *persist.SnapshotStore
	player   *world.PlayerState
	log      *zap.Logger
	interval time.Duration
	acc      time.Duration
}

func (s *autosaveSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *autosaveSystem) Update(dt time.Duration) {
	s.acc += dt
	if s.acc < s.interval {
		return
	}
	s.acc = 0
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Save(ctx, s.player); err != nil {
		s.log.Error("自動存檔失敗", zap.Error(err))
		return
	}
	s.log.Info("自動存檔完成", zap.String("player", s.player.Name))
}
