package world

// EquipSlot identifies an equipment slot on the player.
type EquipSlot int

const (
	SlotNone EquipSlot = iota
	SlotWeapon
	SlotShield
	SlotHelmet
	SlotBody
	SlotLegs
	SlotBoots
	SlotGloves
	SlotCape
	SlotAmulet
	SlotRing
	SlotAmmo
	SlotMax
)

var equipSlotNames = map[string]EquipSlot{
	"weapon": SlotWeapon,
	"shield": SlotShield,
	"helmet": SlotHelmet,
	"body":   SlotBody,
	"legs":   SlotLegs,
	"boots":  SlotBoots,
	"gloves": SlotGloves,
	"cape":   SlotCape,
	"amulet": SlotAmulet,
	"ring":   SlotRing,
	"ammo":   SlotAmmo,
}

// EquipSlotFromName maps an item table slot string to an EquipSlot.
func EquipSlotFromName(name string) EquipSlot {
	if s, ok := equipSlotNames[name]; ok {
		return s
	}
	return SlotNone
}

func (s EquipSlot) String() string {
	for name, slot := range equipSlotNames {
		if slot == s {
			return name
		}
	}
	return "none"
}

// Equipment tracks what the player currently has worn or wielded.
// Each slot holds the InvItem moved out of the inventory (nil = empty).
type Equipment struct {
	Slots [SlotMax]*InvItem
}

func NewEquipment() *Equipment {
	return &Equipment{}
}

// Get returns the item in a slot, or nil.
func (e *Equipment) Get(slot EquipSlot) *InvItem {
	if slot <= SlotNone || slot >= SlotMax {
		return nil
	}
	return e.Slots[slot]
}

// Set places an item in a slot (or nil to clear).
func (e *Equipment) Set(slot EquipSlot, item *InvItem) {
	if slot > SlotNone && slot < SlotMax {
		e.Slots[slot] = item
	}
}

// Weapon returns the currently wielded weapon, or nil.
func (e *Equipment) Weapon() *InvItem {
	return e.Slots[SlotWeapon]
}

// Each calls fn for every occupied slot.
func (e *Equipment) Each(fn func(slot EquipSlot, item *InvItem)) {
	for s := SlotNone + 1; s < SlotMax; s++ {
		if e.Slots[s] != nil {
			fn(s, e.Slots[s])
		}
	}
}

// Bonuses holds cumulative combat bonuses from equipped items.
type Bonuses struct {
	Attack   int
	Strength int
	Defense  int
	Ranged   int
	Magic    int
}

// Add accumulates b into the receiver.
func (b *Bonuses) Add(other Bonuses) {
	b.Attack += other.Attack
	b.Strength += other.Strength
	b.Defense += other.Defense
	b.Ranged += other.Ranged
	b.Magic += other.Magic
}
