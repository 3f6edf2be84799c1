package system

import "errors"

// 引擎層錯誤。協調器負責把這些轉成結果碼，不會往外拋。
var (
	ErrRequirementNotMet    = errors.New("requirement not met")
	ErrNegativeExperience   = errors.New("experience amount must be non-negative")
	ErrInvalidSkill         = errors.New("unknown skill")
	ErrInsufficientEnergy   = errors.New("not enough special energy")
	ErrInsufficientResource = errors.New("missing required runes, ammo or materials")
	ErrStaleTarget          = errors.New("target is no longer there")
	ErrNotEngaged           = errors.New("not in combat")
)
