package system

import (
	"time"

	"github.com/scaperune/sim/internal/core/event"
	"github.com/scaperune/sim/internal/core/rng"
	coresys "github.com/scaperune/sim/internal/core/system"
	"github.com/scaperune/sim/internal/data"
	"github.com/scaperune/sim/internal/script"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

// SessionState 是戰鬥會話的狀態機：Idle → Engaged → {Victory, Defeat, Disengaged}。
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionEngaged
	SessionVictory
	SessionDefeat
	SessionDisengaged
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionEngaged:
		return "engaged"
	case SessionVictory:
		return "victory"
	case SessionDefeat:
		return "defeat"
	case SessionDisengaged:
		return "disengaged"
	}
	return "unknown"
}

// Session 繫結玩家與單一 NPC 目標，持有攻擊計時累積器與結束原因。
// 目標死亡、脫離或玩家死亡時銷毀。
type Session struct {
	Target *world.NpcInfo
	State  SessionState
	Cause  string

	acc time.Duration
}

// CombatSystem 以固定節奏（約一秒）解算玩家與目標之間的交換。
// 消耗祈禱、特殊能量、裝備加成與進度四個引擎。
type CombatSystem struct {
	state   *world.State
	items   *data.ItemTable
	spells  *data.SpellTable
	drops   *data.DropTable
	scripts *script.Engine
	equip   *EquipSystem
	prog    *Progression
	prayer  *PrayerSystem
	special *SpecialSystem
	rng     *rng.RNG
	bus     *event.Bus
	log     *zap.Logger

	interval    time.Duration
	corpseGrace float64
	dropRate    float64

	session *Session
}

type CombatDeps struct {
	State   *world.State
	Items   *data.ItemTable
	Spells  *data.SpellTable
	Drops   *data.DropTable
	Scripts *script.Engine
	Equip   *EquipSystem
	Prog    *Progression
	Prayer  *PrayerSystem
	Special *SpecialSystem
	RNG     *rng.RNG
	Bus     *event.Bus
	Log     *zap.Logger

	Interval    time.Duration
	CorpseGrace float64
	DropRate    float64
}

func NewCombatSystem(d CombatDeps) *CombatSystem {
	if d.Interval <= 0 {
		d.Interval = time.Second
	}
	if d.DropRate <= 0 {
		d.DropRate = 1
	}
	return &CombatSystem{
		state: d.State, items: d.Items, spells: d.Spells, drops: d.Drops,
		scripts: d.Scripts, equip: d.Equip, prog: d.Prog, prayer: d.Prayer, special: d.Special,
		rng: d.RNG, bus: d.Bus, log: d.Log,
		interval: d.Interval, corpseGrace: d.CorpseGrace, dropRate: d.DropRate,
	}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Session 回傳當前會話（可能為 nil），供 UI 讀取。
func (s *CombatSystem) Session() *Session { return s.session }

func (s *CombatSystem) Update(dt time.Duration) {
	sess := s.session
	if sess == nil || sess.State != SessionEngaged {
		return
	}
	sess.acc += dt
	for sess.acc >= s.interval && sess.State == SessionEngaged {
		sess.acc -= s.interval
		s.exchange()
	}
}

// ==================== 會話生命週期 ====================

// Engage 開始攻擊目標：把玩家移到目標旁並啟動交換節奏。
func (s *CombatSystem) Engage(targetID int32) error {
	npc := s.state.Npc(targetID)
	if npc == nil || npc.Dead {
		return ErrStaleTarget
	}
	if s.state.Player.Dead() {
		return ErrRequirementNotMet
	}
	s.state.Player.Pos = world.Position{X: npc.Pos.X + 1, Y: npc.Pos.Y}
	s.session = &Session{Target: npc, State: SessionEngaged}
	s.log.Info("進入戰鬥", zap.String("target", npc.Name), zap.Int32("id", npc.ID))
	return nil
}

// Disengage 主動脫離：取消節奏計時，不觸發勝負。
func (s *CombatSystem) Disengage() {
	if s.session != nil && s.session.State == SessionEngaged {
		s.session.State = SessionDisengaged
		s.session.Cause = "player disengaged"
	}
}

// ==================== 每次交換 ====================

func (s *CombatSystem) exchange() {
	sess := s.session
	npc := sess.Target
	player := s.state.Player

	// 目標已消失/死亡：無害結束，不崩潰
	if npc == nil || npc.Dead {
		sess.State = SessionDisengaged
		sess.Cause = "target is gone"
		return
	}

	mode, spell, maxRange := s.attackMode()
	if chebyshev(player.Pos, npc.Pos) > maxRange {
		// 移動離開取消戰鬥，不觸發勝負
		sess.State = SessionDisengaged
		sess.Cause = "moved out of range"
		return
	}

	switch mode {
	case attackMelee:
		s.meleeAttack(npc, 1, 1, 0)
	case attackRanged:
		s.rangedAttack(npc)
	case attackMagic:
		s.magicAttack(npc, spell)
	}

	// 目標存活則反擊
	if sess.State == SessionEngaged && !npc.Dead {
		s.retaliate(npc)
	}
}

type attackKind int

const (
	attackMelee attackKind = iota
	attackRanged
	attackMagic
)

// attackMode 依暫時選擇的法術與裝備武器決定本次交換的攻擊型態與射程。
func (s *CombatSystem) attackMode() (attackKind, *data.SpellInfo, int32) {
	player := s.state.Player
	if player.SelectedSpell != 0 {
		if spell := s.spells.Get(player.SelectedSpell); spell != nil {
			return attackMagic, spell, 10
		}
		player.SelectedSpell = 0
	}
	if wpn := player.Equip.Weapon(); wpn != nil {
		if info := s.items.Get(wpn.ItemID); info != nil && info.AmmoType != "" {
			return attackRanged, nil, 10
		}
	}
	return attackMelee, nil, 1
}

// ==================== 近戰 ====================

// meleeAttack 解算一次近戰擲骰。accMult/dmgMult 供特殊攻擊放大；
// healPct 為造成傷害的吸血比例。回傳實際傷害。
func (s *CombatSystem) meleeAttack(npc *world.NpcInfo, accMult, dmgMult float64, healPct float64) int {
	player := s.state.Player
	bonuses := s.equip.Bonuses()

	effAtk := player.Level(world.SkillAttack) + 8 + styleAttackBonus(player.Style)
	effStr := player.Level(world.SkillStrength) + 8 + styleStrengthBonus(player.Style)
	effDef := npc.Defense + 8

	acc := AccuracyChance(attackRoll(effAtk, bonuses.Attack), attackRoll(effDef, npc.DefenseBonus))
	maxHit := int(float64(MaxHit(effStr, bonuses.Strength)) * dmgMult)

	dmg := 0
	if s.rng.Chance(acc * accMult) {
		dmg = s.rng.Intn(maxHit + 1)
	}
	s.applyPlayerHit(npc, dmg, accMult != 1 || dmgMult != 1)
	s.grantMeleeXP(dmg)

	if healPct > 0 && dmg > 0 {
		player.CurrentHP += int(float64(dmg) * healPct)
		if player.CurrentHP > player.MaxHP {
			player.CurrentHP = player.MaxHP
		}
	}
	return dmg
}

func (s *CombatSystem) grantMeleeXP(dmg int) {
	if dmg <= 0 {
		return
	}
	d := int64(dmg)
	switch s.state.Player.Style {
	case world.StyleAccurate:
		_ = s.prog.AddExperience(world.SkillAttack, d*4)
	case world.StyleAggressive:
		_ = s.prog.AddExperience(world.SkillStrength, d*4)
	case world.StyleDefensive:
		_ = s.prog.AddExperience(world.SkillDefense, d*4)
	case world.StyleControlled:
		// 控制式三系均分
		share := d * 4 / 3
		_ = s.prog.AddExperience(world.SkillAttack, share)
		_ = s.prog.AddExperience(world.SkillStrength, share)
		_ = s.prog.AddExperience(world.SkillDefense, share)
	}
	_ = s.prog.AddExperience(world.SkillHitpoints, d*4/3)
}

// ==================== 遠程 ====================

// rangedAttack 先消耗一支彈藥再擲骰；沒有彈藥時本回合不出手。
func (s *CombatSystem) rangedAttack(npc *world.NpcInfo) {
	player := s.state.Player
	wpn := player.Equip.Weapon()
	wpnInfo := s.items.Get(wpn.ItemID)

	slot, ammoInfo := s.findAmmo(wpnInfo.AmmoType)
	if ammoInfo == nil {
		s.log.Info("彈藥用盡", zap.String("ammo_type", wpnInfo.AmmoType))
		return
	}
	if _, err := player.Inv.RemoveAt(slot, 1); err != nil {
		return
	}

	bonuses := s.equip.Bonuses()
	effRng := player.Level(world.SkillRanged) + 8 + styleAttackBonus(player.Style)
	effDef := npc.Defense + 8

	acc := AccuracyChance(attackRoll(effRng, bonuses.Ranged), attackRoll(effDef, npc.DefenseBonus))
	// 傷害上限由武器/彈藥配對決定，固定值
	maxHit := ammoInfo.RangedMaxHit

	dmg := 0
	if s.rng.Chance(acc) {
		dmg = s.rng.Intn(maxHit + 1)
	}
	s.applyPlayerHit(npc, dmg, false)
	if dmg > 0 {
		d := int64(dmg)
		_ = s.prog.AddExperience(world.SkillRanged, d*4)
		_ = s.prog.AddExperience(world.SkillHitpoints, d*4/3)
	}
}

// findAmmo 在背包中找到第一格符合武器彈藥類別的彈藥。
func (s *CombatSystem) findAmmo(ammoType string) (int, *data.ItemInfo) {
	inv := s.state.Player.Inv
	for i := 0; i < world.InventorySize; i++ {
		it := inv.Get(i)
		if it == nil {
			continue
		}
		if info := s.items.Get(it.ItemID); info != nil && info.AmmoClass == ammoType {
			return i, info
		}
	}
	return -1, nil
}

// ==================== 魔法 ====================

// magicAttack 先預扣全部符文再擲骰；符文不足時中止施法、不損失任何資源。
func (s *CombatSystem) magicAttack(npc *world.NpcInfo, spell *data.SpellInfo) {
	player := s.state.Player
	if player.Level(world.SkillMagic) < spell.Level {
		player.SelectedSpell = 0
		return
	}
	for _, cost := range spell.Runes {
		if !player.Inv.Has(cost.ItemID, cost.Count) {
			s.log.Info("符文不足", zap.String("spell", spell.Name))
			player.SelectedSpell = 0
			return
		}
	}
	for _, cost := range spell.Runes {
		_ = player.Inv.Consume(cost.ItemID, cost.Count)
	}

	bonuses := s.equip.Bonuses()
	effMag := player.Level(world.SkillMagic) + 8
	effDef := npc.Defense + 8

	acc := AccuracyChance(attackRoll(effMag, bonuses.Magic), attackRoll(effDef, npc.DefenseBonus))
	dmg := 0
	if s.rng.Chance(acc) {
		dmg = s.rng.Intn(spell.MaxHit + 1)
	}
	s.applyPlayerHit(npc, dmg, false)

	_ = s.prog.AddExperience(world.SkillMagic, spell.XP+int64(dmg)*2)
	if dmg > 0 {
		_ = s.prog.AddExperience(world.SkillHitpoints, int64(dmg)*4/3)
	}
}

// SelectSpell 設定之後每次交換施放的法術。0 取消自動施法。
func (s *CombatSystem) SelectSpell(spellID int32) error {
	if spellID == 0 {
		s.state.Player.SelectedSpell = 0
		return nil
	}
	spell := s.spells.Get(spellID)
	if spell == nil {
		return ErrRequirementNotMet
	}
	if s.state.Player.Level(world.SkillMagic) < spell.Level {
		return ErrRequirementNotMet
	}
	s.state.Player.SelectedSpell = spellID
	return nil
}

// ==================== 特殊攻擊 ====================

// PerformSpecial 以裝備武器的特殊攻擊取代一次普通擲骰。
// 能量不足或武器不支援時拒絕，且不消耗任何能量。
func (s *CombatSystem) PerformSpecial() (string, error) {
	sess := s.session
	if sess == nil || sess.State != SessionEngaged {
		return "", ErrNotEngaged
	}
	npc := sess.Target
	if npc == nil || npc.Dead {
		return "", ErrStaleTarget
	}

	player := s.state.Player
	wpn := player.Equip.Weapon()
	if wpn == nil {
		return "", ErrRequirementNotMet
	}
	info := s.items.Get(wpn.ItemID)
	if info == nil || info.Special == "" {
		return "", ErrRequirementNotMet
	}
	sp, ok := s.scripts.Special(info.Special)
	if !ok {
		return "", ErrRequirementNotMet
	}
	if err := s.special.Consume(sp.Cost); err != nil {
		return "", err
	}

	for i := 0; i < sp.Hits && !npc.Dead; i++ {
		s.meleeAttack(npc, sp.AccuracyMult, sp.DamageMult, sp.HealPercent)
	}
	s.log.Info("特殊攻擊",
		zap.String("weapon", wpn.Name),
		zap.Float64("cost", sp.Cost),
		zap.Float64("energy_left", player.Special.Current),
	)
	return sp.Message, nil
}

// ==================== 命中結算與死亡 ====================

func (s *CombatSystem) applyPlayerHit(npc *world.NpcInfo, dmg int, special bool) {
	if dmg <= 0 {
		event.Emit(s.bus, event.AttackMiss{AttackerNpc: false, TargetID: npc.ID})
		return
	}
	event.Emit(s.bus, event.AttackHit{AttackerNpc: false, TargetID: npc.ID, Damage: dmg, Special: special})
	npc.HP -= dmg
	if npc.HP <= 0 {
		npc.HP = 0
		s.victory(npc)
	}
}

// victory 處理目標死亡：死亡事件、屍體寬限、掉落、重生排程。
func (s *CombatSystem) victory(npc *world.NpcInfo) {
	npc.Dead = true
	npc.CorpseRemain = s.corpseGrace
	npc.RespawnRemain = npc.RespawnDelay

	event.Emit(s.bus, event.NpcDied{NpcID: npc.ID, TemplateID: npc.TemplateID, Name: npc.Name})
	s.rollDrops(npc)

	s.session.State = SessionVictory
	s.session.Cause = "target defeated"
	s.log.Info("目標被擊殺", zap.String("npc", npc.Name), zap.Int32("id", npc.ID))
}

// rollDrops 每次擊殺只擲一次門檻骰：命中門檻時只評估稀有表，
// 否則只評估該 NPC 的普通掉落表。兩張表互斥，絕不合併。
func (s *CombatSystem) rollDrops(npc *world.NpcInfo) {
	rare, rareChance := s.drops.Rare()
	var table []data.DropItem
	if rareChance > 0 && s.rng.Intn(1_000_000) < rareChance {
		table = rare
	} else {
		table = s.drops.Get(npc.TemplateID)
	}

	for _, entry := range table {
		chance := int(float64(entry.Chance) * s.dropRate)
		if s.rng.Intn(1_000_000) >= chance {
			continue
		}
		info := s.items.Get(entry.ItemID)
		if info == nil {
			continue
		}
		count := entry.Min
		if entry.Max > entry.Min {
			count = int32(s.rng.Between(int(entry.Min), int(entry.Max)))
		}
		if count <= 0 {
			count = 1
		}
		if err := s.state.Player.Inv.Add(info.ID, info.Name, info.Stackable, count); err != nil {
			s.log.Info("背包已滿，掉落物遺失", zap.String("item", info.Name))
			continue
		}
		event.Emit(s.bus, event.ItemGained{ItemID: info.ID, Name: info.Name, Count: count})
	}
}

// retaliate 目標反擊：對玩家防禦做類似的命中/傷害擲骰。
// 近戰保護祈禱啟用時整次反擊被格擋。
func (s *CombatSystem) retaliate(npc *world.NpcInfo) {
	player := s.state.Player
	if s.prayer != nil && s.prayer.EffectActive(data.EffectProtectMelee) {
		event.Emit(s.bus, event.AttackMiss{AttackerNpc: true, TargetID: npc.ID})
		return
	}
	bonuses := s.equip.Bonuses()

	effAtk := npc.Attack + 8
	effStr := npc.Strength + 8
	effDef := player.Level(world.SkillDefense) + 8 + styleDefenseBonus(player.Style)

	acc := AccuracyChance(attackRoll(effAtk, npc.AttackBonus), attackRoll(effDef, bonuses.Defense))
	maxHit := MaxHit(effStr, npc.StrengthBonus)

	dmg := 0
	if s.rng.Chance(acc) {
		dmg = s.rng.Intn(maxHit + 1)
	}
	if dmg <= 0 {
		event.Emit(s.bus, event.AttackMiss{AttackerNpc: true, TargetID: npc.ID})
		return
	}
	event.Emit(s.bus, event.AttackHit{AttackerNpc: true, TargetID: npc.ID, Damage: dmg})

	player.CurrentHP -= dmg
	if player.CurrentHP <= 0 {
		player.CurrentHP = 0
		s.session.State = SessionDefeat
		s.session.Cause = "player died"
		event.Emit(s.bus, event.PlayerDied{KillerID: npc.ID})
		s.log.Info("玩家死亡", zap.String("killer", npc.Name))
	}
}

// ==================== 戰鬥公式 ====================

// attackRoll 組合有效等級與裝備加成。
func attackRoll(effLevel, bonus int) int {
	return effLevel * (bonus + 64)
}

// AccuracyChance 由攻守兩個擲骰上限導出命中機率，落在 [0, 1)。
func AccuracyChance(atkRoll, defRoll int) float64 {
	if atkRoll > defRoll {
		return 1 - float64(defRoll+2)/float64(2*(atkRoll+1))
	}
	return float64(atkRoll) / float64(2*(defRoll+1))
}

// MaxHit 由有效力量與裝備力量加成導出傷害上限。
func MaxHit(effStr, strBonus int) int {
	return int(0.5 + float64(effStr)*float64(strBonus+64)/640.0)
}

func styleAttackBonus(style world.CombatStyle) int {
	switch style {
	case world.StyleAccurate:
		return 3
	case world.StyleControlled:
		return 1
	}
	return 0
}

func styleStrengthBonus(style world.CombatStyle) int {
	switch style {
	case world.StyleAggressive:
		return 3
	case world.StyleControlled:
		return 1
	}
	return 0
}

func styleDefenseBonus(style world.CombatStyle) int {
	switch style {
	case world.StyleDefensive:
		return 3
	case world.StyleControlled:
		return 1
	}
	return 0
}

// chebyshev 回傳兩點的棋盤距離。
func chebyshev(a, b world.Position) int32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		dx = dy
	}
	return dx
}
