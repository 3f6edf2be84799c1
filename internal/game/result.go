package game

import (
	"errors"

	"github.com/scaperune/sim/internal/system"
	"github.com/scaperune/sim/internal/world"
)

// Code classifies why an operation was rejected.
type Code string

const (
	CodeOK         Code = "ok"
	CodeValidation Code = "validation" // unmet level/requirement, invalid slot
	CodeCapacity   Code = "capacity"   // inventory full, stack limit
	CodeResource   Code = "resource"   // missing runes/ammo/materials/energy
	CodeStale      Code = "stale"      // target already gone; no-op, never a crash
)

// Result is the structured outcome every coordinator operation returns.
// Errors never propagate past the coordinator boundary.
type Result struct {
	OK      bool
	Code    Code
	Message string
}

func ok(message string) Result {
	return Result{OK: true, Code: CodeOK, Message: message}
}

func fail(err error) Result {
	return Result{OK: false, Code: classify(err), Message: err.Error()}
}

func classify(err error) Code {
	switch {
	case errors.Is(err, world.ErrInventoryFull),
		errors.Is(err, world.ErrStackLimit):
		return CodeCapacity
	case errors.Is(err, system.ErrInsufficientResource),
		errors.Is(err, system.ErrInsufficientEnergy):
		return CodeResource
	case errors.Is(err, system.ErrStaleTarget):
		return CodeStale
	default:
		return CodeValidation
	}
}
