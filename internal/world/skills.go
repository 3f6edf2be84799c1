package world

import "math"

// SkillID indexes the fixed set of trainable skills.
type SkillID int

const (
	SkillAttack SkillID = iota
	SkillDefense
	SkillStrength
	SkillHitpoints
	SkillRanged
	SkillPrayer
	SkillMagic
	SkillCooking
	SkillWoodcutting
	SkillFletching
	SkillFishing
	SkillFiremaking
	SkillCrafting
	SkillSmithing
	SkillMining
	SkillHerblore
	SkillAgility
	SkillThieving
	SkillCount
)

var skillNames = [SkillCount]string{
	"attack", "defense", "strength", "hitpoints", "ranged", "prayer",
	"magic", "cooking", "woodcutting", "fletching", "fishing", "firemaking",
	"crafting", "smithing", "mining", "herblore", "agility", "thieving",
}

func (s SkillID) String() string {
	if s < 0 || s >= SkillCount {
		return "unknown"
	}
	return skillNames[s]
}

// SkillByName returns the skill with the given lowercase name, or -1.
func SkillByName(name string) SkillID {
	for i, n := range skillNames {
		if n == name {
			return SkillID(i)
		}
	}
	return -1
}

// Skill holds one skill's persistent state. Level is always the table lookup
// of XP; it is stored so snapshots and the UI read it without recomputing.
type Skill struct {
	Level int
	XP    int64
}

const MaxLevel = 99

// levelThresholds[l] = minimum cumulative XP for level l (1..99).
// Classic curve: running quarter-sum of floor(n + 300*2^(n/7)).
var levelThresholds [MaxLevel + 1]int64

func init() {
	var points int64
	for lvl := 1; lvl <= MaxLevel; lvl++ {
		levelThresholds[lvl] = points / 4
		points += int64(float64(lvl) + 300.0*math.Pow(2.0, float64(lvl)/7.0))
	}
}

// XPForLevel returns the minimum XP for a level. Out-of-range levels clamp.
func XPForLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level]
}

// LevelForXP returns the largest level whose threshold is <= xp, capped at 99.
func LevelForXP(xp int64) int {
	if xp < 0 {
		return 1
	}
	lo, hi := 1, MaxLevel
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if levelThresholds[mid] <= xp {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// CombatLevel derives the aggregate combat level from the current skills.
// Never cached — callers always see the live value.
func CombatLevel(skills *[SkillCount]Skill) int {
	base := float64(skills[SkillDefense].Level+skills[SkillHitpoints].Level+
		skills[SkillPrayer].Level/2) * 0.25
	melee := float64(skills[SkillAttack].Level+skills[SkillStrength].Level) * 0.325
	ranged := math.Floor(float64(skills[SkillRanged].Level)*1.5) * 0.325
	magic := math.Floor(float64(skills[SkillMagic].Level)*1.5) * 0.325

	best := melee
	if ranged > best {
		best = ranged
	}
	if magic > best {
		best = magic
	}
	return int(math.Floor(base + best))
}
