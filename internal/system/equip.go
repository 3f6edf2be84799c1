package system

import (
	"github.com/scaperune/sim/internal/data"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

// EquipSystem 處理穿脫裝備的交易式操作與裝備加成彙總。
// 任何檢查失敗時整個操作中止，背包與裝備完全不變動。
type EquipSystem struct {
	player *world.PlayerState
	items  *data.ItemTable
	log    *zap.Logger
}

func NewEquipSystem(player *world.PlayerState, items *data.ItemTable, log *zap.Logger) *EquipSystem {
	return &EquipSystem{player: player, items: items, log: log}
}

// ==================== 裝備加成 ====================

// Bonuses 彙總所有已裝備道具的戰鬥加成。每次查詢重算，不快取。
func (s *EquipSystem) Bonuses() world.Bonuses {
	var total world.Bonuses
	s.player.Equip.Each(func(_ world.EquipSlot, item *world.InvItem) {
		info := s.items.Get(item.ItemID)
		if info == nil {
			return
		}
		total.Add(world.Bonuses{
			Attack:   info.Bonuses.Attack,
			Strength: info.Bonuses.Strength,
			Defense:  info.Bonuses.Defense,
			Ranged:   info.Bonuses.Ranged,
			Magic:    info.Bonuses.Magic,
		})
	})
	return total
}

// ==================== 穿裝備 ====================

// Equip 把背包格中的道具穿上。目的裝備格已佔用時先脫下；
// 背包空間不足以容納被脫下的道具時，整個操作中止且不變動。
func (s *EquipSystem) Equip(invSlot int) error {
	inv := s.player.Inv
	item := inv.Get(invSlot)
	if item == nil {
		return world.ErrEmptySlot
	}
	info := s.items.Get(item.ItemID)
	if info == nil || info.EquipSlot == "" {
		return ErrRequirementNotMet
	}

	// 技能等級需求
	for skillName, min := range info.Requirements {
		skill := world.SkillByName(skillName)
		if skill < 0 || s.player.Level(skill) < min {
			return ErrRequirementNotMet
		}
	}

	dest := world.EquipSlotFromName(info.EquipSlot)
	if dest == world.SlotNone {
		return ErrRequirementNotMet
	}

	// 收集會被擠出的道具：目的格佔用者、雙手武器擠出盾牌、
	// 穿盾牌時擠出雙手武器
	eq := s.player.Equip
	var displacedSlots []world.EquipSlot
	if eq.Get(dest) != nil {
		displacedSlots = append(displacedSlots, dest)
	}
	if dest == world.SlotWeapon && info.TwoHanded && eq.Get(world.SlotShield) != nil {
		displacedSlots = append(displacedSlots, world.SlotShield)
	}
	if dest == world.SlotShield {
		if wpn := eq.Weapon(); wpn != nil {
			if wpnInfo := s.items.Get(wpn.ItemID); wpnInfo != nil && wpnInfo.TwoHanded {
				displacedSlots = append(displacedSlots, world.SlotWeapon)
			}
		}
	}

	// 空間檢查：被穿上的道具騰出一格可供回收
	if inv.FreeSlots()+1 < len(displacedSlots) {
		return world.ErrInventoryFull
	}

	// 以上全數通過後才開始變動
	taken, err := inv.Take(invSlot)
	if err != nil {
		return err
	}
	for _, slot := range displacedSlots {
		displaced := eq.Get(slot)
		eq.Set(slot, nil)
		if _, err := inv.Put(displaced); err != nil {
			// 空間已事先檢查過，不應發生
			eq.Set(slot, displaced)
			inv.Slots[invSlot] = taken
			return err
		}
	}
	eq.Set(dest, taken)

	// 武器變更：目前戰鬥方式對新武器不合法時自動換成最接近的合法方式
	if dest == world.SlotWeapon && !world.StyleLegal(info.Category, s.player.Style) {
		old := s.player.Style
		s.player.Style = world.NearestLegalStyle(info.Category, s.player.Style)
		s.log.Debug("戰鬥方式自動切換",
			zap.String("from", old.String()),
			zap.String("to", s.player.Style.String()),
			zap.String("weapon", item.Name),
		)
	}
	return nil
}

// ==================== 脫裝備 ====================

// Unequip 把裝備格的道具放回背包第一個空格。背包滿時拒絕。
func (s *EquipSystem) Unequip(slot world.EquipSlot) error {
	eq := s.player.Equip
	item := eq.Get(slot)
	if item == nil {
		return world.ErrEmptySlot
	}
	if _, err := s.player.Inv.Put(item); err != nil {
		return err
	}
	eq.Set(slot, nil)
	return nil
}
