// Package script hosts the content-defined parts of combat in Lua, following
// the convention that numbers content designers tune do not live in Go code.
// Currently that is the weapon special-attack catalogue.
package script

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Loop goroutine access only.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory is not an error — the catalogue is simply empty.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString executes raw Lua source. Used by tests to inject definitions.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// SpecialDef is one weapon special attack as declared in Lua:
//
//	specials = {
//	  dragon_dagger = { cost = 25, damage_mult = 1.15, accuracy_mult = 1.25, hits = 2 },
//	}
type SpecialDef struct {
	Cost         float64 // energy percent consumed, 0..100
	DamageMult   float64
	AccuracyMult float64
	Hits         int     // number of rolls in the special exchange (default 1)
	HealPercent  float64 // attacker heals this fraction of damage dealt
	Message      string
}

// Special looks up a special attack by key. Returns false when the scripts
// declare no such special.
func (e *Engine) Special(name string) (*SpecialDef, bool) {
	tbl := e.vm.GetGlobal("specials")
	specials, ok := tbl.(*lua.LTable)
	if !ok {
		return nil, false
	}
	entry := specials.RawGetString(name)
	def, ok := entry.(*lua.LTable)
	if !ok {
		return nil, false
	}

	sp := &SpecialDef{
		Cost:         numField(def, "cost", 100),
		DamageMult:   numField(def, "damage_mult", 1),
		AccuracyMult: numField(def, "accuracy_mult", 1),
		Hits:         int(numField(def, "hits", 1)),
		HealPercent:  numField(def, "heal_percent", 0),
		Message:      strField(def, "message"),
	}
	if sp.Hits < 1 {
		sp.Hits = 1
	}
	return sp, true
}

func numField(t *lua.LTable, key string, def float64) float64 {
	if v, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float64(v)
	}
	return def
}

func strField(t *lua.LTable, key string) string {
	if v, ok := t.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return ""
}
