package world

import "math"

const (
	// InventorySize is the fixed slot count of the player's pack.
	InventorySize = 30
	// MaxStack is the uniform per-slot quantity bound for stackable items.
	MaxStack = math.MaxInt32
)

// InvItem is one occupied inventory slot. Template data (bonuses, equip slot,
// requirements) stays in the item table; only what inventory bookkeeping
// itself needs is denormalized here.
type InvItem struct {
	ItemID    int32
	Name      string
	Count     int32 // > 0 always; == 1 for non-stackable items
	Stackable bool
}

// Inventory is the player's fixed 30-slot container.
// Mutated only from the loop goroutine — no locks.
type Inventory struct {
	Slots [InventorySize]*InvItem
}

func NewInventory() *Inventory {
	return &Inventory{}
}

// Get returns the item in a slot, or nil.
func (inv *Inventory) Get(slot int) *InvItem {
	if slot < 0 || slot >= InventorySize {
		return nil
	}
	return inv.Slots[slot]
}

// FirstEmpty returns the lowest empty slot index, or -1 when full.
func (inv *Inventory) FirstEmpty() int {
	for i, it := range inv.Slots {
		if it == nil {
			return i
		}
	}
	return -1
}

// FindStack returns the slot of an existing stack of itemID, or -1.
// Only meaningful for stackable items, which occupy at most one slot.
func (inv *Inventory) FindStack(itemID int32) int {
	for i, it := range inv.Slots {
		if it != nil && it.ItemID == itemID && it.Stackable {
			return i
		}
	}
	return -1
}

// FreeSlots returns the number of empty slots.
func (inv *Inventory) FreeSlots() int {
	n := 0
	for _, it := range inv.Slots {
		if it == nil {
			n++
		}
	}
	return n
}

// CountOf returns the total quantity of itemID across all slots.
func (inv *Inventory) CountOf(itemID int32) int64 {
	var total int64
	for _, it := range inv.Slots {
		if it != nil && it.ItemID == itemID {
			total += int64(it.Count)
		}
	}
	return total
}

// Add places count of an item into the inventory. Stackable items merge into
// an existing stack or claim one empty slot; non-stackable items claim one
// slot per unit. The whole add succeeds or fails with no mutation.
func (inv *Inventory) Add(itemID int32, name string, stackable bool, count int32) error {
	if count <= 0 {
		return ErrEmptySlot
	}
	if stackable {
		if slot := inv.FindStack(itemID); slot >= 0 {
			cur := inv.Slots[slot]
			if int64(cur.Count)+int64(count) > MaxStack {
				return ErrStackLimit
			}
			cur.Count += count
			return nil
		}
		slot := inv.FirstEmpty()
		if slot < 0 {
			return ErrInventoryFull
		}
		inv.Slots[slot] = &InvItem{ItemID: itemID, Name: name, Count: count, Stackable: true}
		return nil
	}

	if inv.FreeSlots() < int(count) {
		return ErrInventoryFull
	}
	for placed := int32(0); placed < count; placed++ {
		slot := inv.FirstEmpty()
		inv.Slots[slot] = &InvItem{ItemID: itemID, Name: name, Count: 1, Stackable: false}
	}
	return nil
}

// Put places an already-built item into the first empty slot (unequip path).
// Non-stackable items carry exactly one unit per slot.
func (inv *Inventory) Put(item *InvItem) (int, error) {
	if item == nil || item.Count <= 0 {
		return -1, ErrEmptySlot
	}
	if !item.Stackable && item.Count != 1 {
		return -1, ErrNotStackable
	}
	slot := inv.FirstEmpty()
	if slot < 0 {
		return -1, ErrInventoryFull
	}
	inv.Slots[slot] = item
	return slot, nil
}

// RemoveAt removes up to count from a slot, clamped to what is there.
// Reaching zero clears the slot. Returns the quantity actually removed.
func (inv *Inventory) RemoveAt(slot int, count int32) (int32, error) {
	if slot < 0 || slot >= InventorySize {
		return 0, ErrInvalidSlot
	}
	it := inv.Slots[slot]
	if it == nil {
		return 0, ErrEmptySlot
	}
	if count >= it.Count {
		removed := it.Count
		inv.Slots[slot] = nil
		return removed, nil
	}
	it.Count -= count
	return count, nil
}

// Take detaches the item from a slot without destroying it (equip path).
func (inv *Inventory) Take(slot int) (*InvItem, error) {
	if slot < 0 || slot >= InventorySize {
		return nil, ErrInvalidSlot
	}
	it := inv.Slots[slot]
	if it == nil {
		return nil, ErrEmptySlot
	}
	inv.Slots[slot] = nil
	return it, nil
}

// Move merges same-ID stackables from→to (clearing the source) or swaps the
// two slots' contents otherwise. Moving onto an empty slot is a plain move.
func (inv *Inventory) Move(from, to int) error {
	if from < 0 || from >= InventorySize || to < 0 || to >= InventorySize {
		return ErrInvalidSlot
	}
	if from == to {
		return nil
	}
	src := inv.Slots[from]
	if src == nil {
		return ErrEmptySlot
	}
	dst := inv.Slots[to]
	if dst != nil && dst.Stackable && src.Stackable && dst.ItemID == src.ItemID {
		if int64(dst.Count)+int64(src.Count) > MaxStack {
			return ErrStackLimit
		}
		dst.Count += src.Count
		inv.Slots[from] = nil
		return nil
	}
	inv.Slots[from], inv.Slots[to] = dst, src
	return nil
}

// Has reports whether at least count of itemID is held.
func (inv *Inventory) Has(itemID int32, count int32) bool {
	return inv.CountOf(itemID) >= int64(count)
}

// Consume removes count of itemID across slots, lowest slot first.
// Fails with no mutation when the total held is insufficient.
func (inv *Inventory) Consume(itemID int32, count int32) error {
	if !inv.Has(itemID, count) {
		return ErrEmptySlot
	}
	remaining := count
	for i := 0; i < InventorySize && remaining > 0; i++ {
		it := inv.Slots[i]
		if it == nil || it.ItemID != itemID {
			continue
		}
		n, _ := inv.RemoveAt(i, remaining)
		remaining -= n
	}
	return nil
}
