package event

import "testing"

func TestEmitVisibleAfterSwap(t *testing.T) {
	bus := NewBus()
	var seen []LevelUp
	Subscribe(bus, func(ev LevelUp) { seen = append(seen, ev) })

	Emit(bus, LevelUp{Skill: "attack", NewLevel: 2})

	// same tick: nothing delivered
	bus.DispatchAll()
	if len(seen) != 0 {
		t.Fatalf("delivered before swap: %d", len(seen))
	}

	bus.SwapBuffers()
	bus.DispatchAll()
	if len(seen) != 1 || seen[0].NewLevel != 2 {
		t.Fatalf("after swap seen = %+v", seen)
	}

	// next swap clears the delivered batch
	bus.SwapBuffers()
	bus.DispatchAll()
	if len(seen) != 1 {
		t.Fatalf("events redelivered: %d", len(seen))
	}
}

func TestDistinctTypesRouteSeparately(t *testing.T) {
	bus := NewBus()
	hits, deaths := 0, 0
	Subscribe(bus, func(AttackHit) { hits++ })
	Subscribe(bus, func(NpcDied) { deaths++ })

	Emit(bus, AttackHit{Damage: 3})
	Emit(bus, AttackHit{Damage: 5})
	Emit(bus, NpcDied{NpcID: 1})

	bus.SwapBuffers()
	bus.DispatchAll()
	if hits != 2 || deaths != 1 {
		t.Fatalf("hits=%d deaths=%d", hits, deaths)
	}
}

func TestMultipleHandlersSameType(t *testing.T) {
	bus := NewBus()
	a, b := 0, 0
	Subscribe(bus, func(PrayersExhausted) { a++ })
	Subscribe(bus, func(PrayersExhausted) { b++ })

	Emit(bus, PrayersExhausted{})
	bus.SwapBuffers()
	bus.DispatchAll()
	if a != 1 || b != 1 {
		t.Fatalf("a=%d b=%d", a, b)
	}
}
