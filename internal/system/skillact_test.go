package system

import (
	"errors"
	"testing"

	"github.com/scaperune/sim/internal/core/event"
	"github.com/scaperune/sim/internal/core/rng"
	"github.com/scaperune/sim/internal/data"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
)

func newSkillRig(t *testing.T, seed int64) (*world.PlayerState, *world.State, *event.Bus, *SkillActionSystem) {
	t.Helper()
	player := world.NewPlayerState("tester")
	state := world.NewState(player)
	bus := event.NewBus()
	log := zap.NewNop()
	prog := NewProgression(player, bus, log, 1)
	sys := NewSkillActionSystem(state, testItems(t), testActions(t), prog, rng.New(seed), bus, log)
	return player, state, bus, sys
}

func addResource(state *world.State, id int32, actionID, family string) *world.Resource {
	res := &world.Resource{
		ID: id, ActionID: actionID, Family: family,
		Pos: world.Position{X: 5, Y: 5}, Available: true,
	}
	state.AddResource(res)
	return res
}

func TestSuccessChanceRampAndClamp(t *testing.T) {
	a := &data.ActionInfo{Level: 10, Base: 0.3, Increment: 0.02, Floor: 0.1, Ceiling: 0.9}

	if got := SuccessChance(a, 10); got != 0.3 {
		t.Fatalf("at level = %v", got)
	}
	// monotone non-decreasing in level
	prev := 0.0
	for lvl := 1; lvl <= 99; lvl++ {
		p := SuccessChance(a, lvl)
		if p < prev {
			t.Fatalf("chance decreased at level %d: %v < %v", lvl, p, prev)
		}
		if p < 0 || p > 1 {
			t.Fatalf("chance out of range at level %d: %v", lvl, p)
		}
		prev = p
	}
	// clamps
	if got := SuccessChance(a, 1); got != 0.1 {
		t.Fatalf("floor = %v", got)
	}
	if got := SuccessChance(a, 99); got != 0.9 {
		t.Fatalf("ceiling = %v", got)
	}
}

func TestAttemptStaleTargets(t *testing.T) {
	_, state, _, sys := newSkillRig(t, 1)
	if _, err := sys.Attempt(404); !errors.Is(err, ErrStaleTarget) {
		t.Fatalf("unknown resource err = %v", err)
	}
	res := addResource(state, 1, "sure_rock", "mining")
	res.Available = false
	if _, err := sys.Attempt(1); !errors.Is(err, ErrStaleTarget) {
		t.Fatalf("depleted resource err = %v", err)
	}
}

func TestAttemptLevelGate(t *testing.T) {
	_, state, _, sys := newSkillRig(t, 1)
	addResource(state, 1, "iron_rock", "mining") // needs mining 15
	if _, err := sys.Attempt(1); !errors.Is(err, ErrRequirementNotMet) {
		t.Fatalf("err = %v", err)
	}
}

func TestAttemptSuccessYieldsAndDepletes(t *testing.T) {
	player, state, bus, sys := newSkillRig(t, 1)
	res := addResource(state, 1, "sure_rock", "mining") // certain success

	outcome, err := sys.Attempt(1)
	if err != nil {
		t.Fatalf("attempt: %v", err)
	}
	if !outcome.Success || outcome.XP != 18 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if player.Inv.CountOf(23) != 1 {
		t.Fatal("no ore in inventory")
	}
	if player.Skills[world.SkillMining].XP != 18 {
		t.Fatalf("mining xp = %d", player.Skills[world.SkillMining].XP)
	}
	if res.Available {
		t.Fatal("resource not depleted")
	}
	if got := drain[event.ResourceDepleted](bus); len(got) != 1 || got[0].Family != "mining" {
		t.Fatalf("depleted events = %+v", got)
	}
}

func TestSeededAttemptsSucceedWithinBound(t *testing.T) {
	player, state, _, sys := newSkillRig(t, 7)
	setLevel(player, world.SkillMining, 15)
	addResource(state, 1, "iron_rock", "mining") // chance 0.3 at level 15

	succeeded := false
	for i := 0; i < 200 && !succeeded; i++ {
		outcome, err := sys.Attempt(1)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		succeeded = outcome.Success
	}
	if !succeeded {
		t.Fatal("no success in 200 seeded attempts at chance 0.3")
	}
	if player.Inv.CountOf(24) != 1 {
		t.Fatal("no iron ore")
	}
}

func TestAttemptRollsBackOnFullInventory(t *testing.T) {
	player, state, _, sys := newSkillRig(t, 1)
	res := addResource(state, 1, "sure_rock", "mining")
	for player.Inv.FreeSlots() > 0 {
		player.Inv.Add(26, "Logs", false, 1)
	}

	_, err := sys.Attempt(1)
	if !errors.Is(err, world.ErrInventoryFull) {
		t.Fatalf("err = %v", err)
	}
	if !res.Available {
		t.Fatal("resource stayed depleted after rollback")
	}
	if player.Skills[world.SkillMining].XP != 0 {
		t.Fatal("xp granted despite rollback")
	}
}

func TestAgilityFailureGrantsHalfXP(t *testing.T) {
	player, state, _, sys := newSkillRig(t, 1)
	addResource(state, 1, "doomed_obstacle", "agility") // certain failure

	outcome, err := sys.Attempt(1)
	if err != nil {
		t.Fatalf("attempt: %v", err)
	}
	if outcome.Success {
		t.Fatal("ceiling-0 action succeeded")
	}
	if outcome.XP != 15 {
		t.Fatalf("half xp = %d, want 15", outcome.XP)
	}
	if player.Skills[world.SkillAgility].XP != 15 {
		t.Fatalf("agility xp = %d", player.Skills[world.SkillAgility].XP)
	}
	if outcome.Reason == "" {
		t.Fatal("failure without a reason")
	}
}

func TestFiremakingConsumesInput(t *testing.T) {
	player, state, _, sys := newSkillRig(t, 1)
	addResource(state, 1, "campfire_site", "firemaking")

	// no logs: rejected before any roll
	if _, err := sys.Attempt(1); !errors.Is(err, ErrInsufficientResource) {
		t.Fatalf("err = %v", err)
	}

	player.Inv.Add(26, "Logs", false, 1)
	outcome, err := sys.Attempt(1)
	if err != nil {
		t.Fatalf("attempt: %v", err)
	}
	if !outcome.Success {
		t.Fatal("certain firemaking failed")
	}
	if player.Inv.CountOf(26) != 0 {
		t.Fatal("logs not consumed")
	}
}

func TestSecondaryYieldIndependentRoll(t *testing.T) {
	player, state, _, sys := newSkillRig(t, 1)
	addResource(state, 1, "gem_rock", "mining") // secondary chance 1.0

	outcome, err := sys.Attempt(1)
	if err != nil {
		t.Fatalf("attempt: %v", err)
	}
	if !outcome.Secondary {
		t.Fatal("certain secondary missed")
	}
	if player.Inv.CountOf(25) != 1 {
		t.Fatal("no sapphire")
	}
	// 18 main + 50 secondary
	if got := player.Skills[world.SkillMining].XP; got != 68 {
		t.Fatalf("xp = %d, want 68", got)
	}
}
