package script

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestSpecialLookup(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	defer e.Close()

	err = e.DoString(`
specials = {
  dragon_dagger = {
    cost = 25, damage_mult = 1.15, accuracy_mult = 1.25, hits = 2,
    message = "You lunge twice!",
  },
  bare = {},
}
`)
	if err != nil {
		t.Fatalf("dostring: %v", err)
	}

	sp, ok := e.Special("dragon_dagger")
	if !ok {
		t.Fatal("dragon_dagger not found")
	}
	if sp.Cost != 25 || sp.Hits != 2 || sp.DamageMult != 1.15 {
		t.Fatalf("sp = %+v", sp)
	}
	if sp.Message != "You lunge twice!" {
		t.Fatalf("message = %q", sp.Message)
	}

	// missing fields fall back to defaults
	bare, ok := e.Special("bare")
	if !ok {
		t.Fatal("bare not found")
	}
	if bare.Cost != 100 || bare.Hits != 1 || bare.DamageMult != 1 || bare.AccuracyMult != 1 {
		t.Fatalf("defaults = %+v", bare)
	}

	if _, ok := e.Special("nonexistent"); ok {
		t.Fatal("unknown special found")
	}
}

func TestNewEngineLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	src := `specials = { test_blade = { cost = 10 } }`
	if err := os.WriteFile(filepath.Join(dir, "specials.lua"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	defer e.Close()

	if _, ok := e.Special("test_blade"); !ok {
		t.Fatal("script file not loaded")
	}
}

func TestNewEngineMissingDirIsEmpty(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	defer e.Close()
	if _, ok := e.Special("anything"); ok {
		t.Fatal("empty catalogue returned a special")
	}
}
