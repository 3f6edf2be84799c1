package system

import (
	"errors"
	"testing"

	"github.com/scaperune/sim/internal/core/event"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

func newPrayerRig(t *testing.T) (*world.PlayerState, *event.Bus, *PrayerSystem) {
	t.Helper()
	player := world.NewPlayerState("tester")
	bus := event.NewBus()
	log := zap.NewNop()
	prog := NewProgression(player, bus, log, 1)
	sys := NewPrayerSystem(player, testPrayers(t), testItems(t), prog, bus, log)
	return player, bus, sys
}

func TestActivateLevelGate(t *testing.T) {
	_, _, sys := newPrayerRig(t)
	// Rock Skin needs prayer 10; fresh character is level 1
	if err := sys.Activate(4); !errors.Is(err, ErrRequirementNotMet) {
		t.Fatalf("err = %v", err)
	}
}

func TestActivateAtZeroPointsFails(t *testing.T) {
	player, _, sys := newPrayerRig(t)
	player.Prayer.Current = 0
	if err := sys.Activate(1); !errors.Is(err, ErrRequirementNotMet) {
		t.Fatalf("err = %v", err)
	}
}

func TestGroupExclusivity(t *testing.T) {
	player, _, sys := newPrayerRig(t)
	setLevel(player, world.SkillPrayer, 20)

	if err := sys.Activate(1); err != nil { // Thick Skin (defense)
		t.Fatalf("activate: %v", err)
	}
	if err := sys.Activate(4); err != nil { // Rock Skin (defense)
		t.Fatalf("activate upgrade: %v", err)
	}
	if player.Prayer.Active[1] || !player.Prayer.Active[4] {
		t.Fatalf("active set = %v, want only rock skin", player.Prayer.Active)
	}
	// different group stacks
	if err := sys.Activate(2); err != nil { // Burst of Strength
		t.Fatalf("activate other group: %v", err)
	}
	if len(player.Prayer.Active) != 2 {
		t.Fatalf("active count = %d", len(player.Prayer.Active))
	}
}

func TestDrainRateTracksActiveSet(t *testing.T) {
	player, _, sys := newPrayerRig(t)
	setLevel(player, world.SkillPrayer, 20)

	sys.Activate(4) // 0.6/s
	sys.Activate(2) // 0.2/s
	if got := player.Prayer.DrainRate; got != 0.8 {
		t.Fatalf("drain = %v, want 0.8", got)
	}
	sys.Deactivate(4)
	if got := player.Prayer.DrainRate; got != 0.2 {
		t.Fatalf("drain after deactivate = %v", got)
	}
}

func TestExhaustionForcesAllOff(t *testing.T) {
	player, bus, sys := newPrayerRig(t)
	setLevel(player, world.SkillPrayer, 20)
	sys.Activate(4)
	player.Prayer.Current = 1

	sys.TickSeconds(10) // far more than 1 point of drain
	if player.Prayer.Current != 0 {
		t.Fatalf("points = %v", player.Prayer.Current)
	}
	if len(player.Prayer.Active) != 0 || player.Prayer.DrainRate != 0 {
		t.Fatalf("prayers still on: %v drain %v", player.Prayer.Active, player.Prayer.DrainRate)
	}
	if got := drain[event.PrayersExhausted](bus); len(got) != 1 {
		t.Fatalf("exhausted events = %d", len(got))
	}
	// points never go negative
	sys.TickSeconds(10)
	if player.Prayer.Current != 0 {
		t.Fatalf("points after idle tick = %v", player.Prayer.Current)
	}
}

func TestBuryBones(t *testing.T) {
	player, _, sys := newPrayerRig(t)
	if err := player.Inv.Add(21, "Bones", false, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := sys.BuryBones(21); err != nil {
		t.Fatalf("bury: %v", err)
	}
	if got := player.Inv.CountOf(21); got != 0 {
		t.Fatalf("bones left = %d", got)
	}
	if got := player.Skills[world.SkillPrayer].XP; got != 18 {
		t.Fatalf("prayer xp = %d", got)
	}
	// none left
	if err := sys.BuryBones(21); !errors.Is(err, ErrInsufficientResource) {
		t.Fatalf("err = %v", err)
	}
	// coins are not bones
	player.Inv.Add(20, "Coins", true, 5)
	if err := sys.BuryBones(20); !errors.Is(err, ErrRequirementNotMet) {
		t.Fatalf("err = %v", err)
	}
}

func TestRestoreAtAltar(t *testing.T) {
	player, _, sys := newPrayerRig(t)
	setLevel(player, world.SkillPrayer, 30)
	sys.Activate(4)
	player.Prayer.Current = 3

	sys.RestoreAtAltar()
	if player.Prayer.Current != 30 {
		t.Fatalf("points = %v, want 30", player.Prayer.Current)
	}
	if len(player.Prayer.Active) != 0 || player.Prayer.DrainRate != 0 {
		t.Fatal("altar restore should clear active prayers")
	}
}
