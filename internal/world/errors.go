package world

import "errors"

// Bookkeeping errors surfaced by the state model. The coordinator maps these
// onto result codes; they never escape the game package as raw errors.
var (
	ErrInventoryFull = errors.New("inventory is full")
	ErrStackLimit    = errors.New("stack limit exceeded")
	ErrInvalidSlot   = errors.New("invalid slot index")
	ErrEmptySlot     = errors.New("slot is empty")
	ErrNotStackable  = errors.New("non-stackable quantity must be 1 per slot")
)
