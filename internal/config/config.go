package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Rates      RatesConfig      `toml:"rates"`
	Save       SaveConfig       `toml:"save"`
	Data       DataConfig       `toml:"data"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate           time.Duration `toml:"tick_rate"`            // loop cadence
	CombatInterval     time.Duration `toml:"combat_interval"`      // one exchange per interval
	SpecialRegenPerSec float64       `toml:"special_regen_per_sec"`// energy percent per second
	CorpseGraceSeconds float64       `toml:"corpse_grace_seconds"` // delay before corpse removal
	Seed               int64         `toml:"seed"`                 // 0 = time-based
}

type RatesConfig struct {
	ExpRate  float64 `toml:"exp_rate"`
	DropRate float64 `toml:"drop_rate"`
}

type SaveConfig struct {
	Path             string        `toml:"path"` // SQLite save database
	AutosaveInterval time.Duration `toml:"autosave_interval"`
}

type DataConfig struct {
	Dir        string `toml:"dir"`         // YAML template tables
	ScriptsDir string `toml:"scripts_dir"` // Lua content scripts
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the baseline configuration; Load overlays the file on top.
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:           100 * time.Millisecond,
			CombatInterval:     time.Second,
			SpecialRegenPerSec: 100.0 / 300.0, // full bar in five minutes
			CorpseGraceSeconds: 2,
		},
		Rates: RatesConfig{
			ExpRate:  1.0,
			DropRate: 1.0,
		},
		Save: SaveConfig{
			Path:             "scaperune.db",
			AutosaveInterval: 5 * time.Minute,
		},
		Data: DataConfig{
			Dir:        "data",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
