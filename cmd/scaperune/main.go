package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/scaperune/sim/internal/config"
	"github.com/scaperune/sim/internal/core/event"
	"github.com/scaperune/sim/internal/data"
	"github.com/scaperune/sim/internal/game"
	"github.com/scaperune/sim/internal/persist"
	"github.com/scaperune/sim/internal/script"
	"github.com/scaperune/sim/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(playerName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           ScapeRune  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      single-player simulation core        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mplayer:\033[0m %s\n\n", playerName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/scaperune.toml"
	if p := os.Getenv("SCAPERUNE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	playerName := "adventurer"
	if n := os.Getenv("SCAPERUNE_PLAYER"); n != "" {
		playerName = n
	}
	printBanner(playerName)

	// 3. Open the save database and run migrations
	printSection("save database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.Open(ctx, cfg.Save.Path, log)
	if err != nil {
		return fmt.Errorf("save db: %w", err)
	}
	defer db.Close()
	printOK("sqlite opened")

	if err := persist.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	// 4. Load template tables
	printSection("data")

	itemTable, err := data.LoadItemTable(filepath.Join(cfg.Data.Dir, "items.yaml"))
	if err != nil {
		return fmt.Errorf("load item table: %w", err)
	}
	printStat("item templates", itemTable.Count())

	npcTable, err := data.LoadNpcTable(filepath.Join(cfg.Data.Dir, "npcs.yaml"))
	if err != nil {
		return fmt.Errorf("load npc table: %w", err)
	}
	printStat("npc templates", npcTable.Count())

	dropTable, err := data.LoadDropTable(filepath.Join(cfg.Data.Dir, "drops.yaml"))
	if err != nil {
		return fmt.Errorf("load drop table: %w", err)
	}
	printStat("drop tables", dropTable.Count())

	prayerTable, err := data.LoadPrayerTable(filepath.Join(cfg.Data.Dir, "prayers.yaml"))
	if err != nil {
		return fmt.Errorf("load prayer table: %w", err)
	}
	printStat("prayers", prayerTable.Count())

	spellTable, err := data.LoadSpellTable(filepath.Join(cfg.Data.Dir, "spells.yaml"))
	if err != nil {
		return fmt.Errorf("load spell table: %w", err)
	}
	printStat("spells", spellTable.Count())

	actionTable, err := data.LoadActionTable(filepath.Join(cfg.Data.Dir, "actions.yaml"))
	if err != nil {
		return fmt.Errorf("load action table: %w", err)
	}
	printStat("skilling actions", actionTable.Count())

	// 5. Lua content scripts (weapon special attacks)
	scripts, err := script.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer scripts.Close()
	printOK("lua scripts loaded")
	fmt.Println()

	// 6. Build the player and the coordinator
	player := world.NewPlayerState(playerName)
	store := persist.NewSnapshotStore(db, log)
	coord := game.New(cfg, player, game.Tables{
		Items:   itemTable,
		Npcs:    npcTable,
		Drops:   dropTable,
		Prayers: prayerTable,
		Spells:  spellTable,
		Actions: actionTable,
	}, scripts, store, log)

	// Resume from the latest snapshot when one exists
	if err := coord.Load(ctx); err != nil && !errors.Is(err, persist.ErrNoSnapshot) {
		return fmt.Errorf("load snapshot: %w", err)
	}

	// 7. Populate the world: one of every NPC kind, a spread of resources
	printSection("world")

	npcCount := 0
	npcTable.All(func(tmpl *data.NpcTemplate) {
		if coord.SpawnNpc(tmpl.ID, world.Position{X: int32(10 + npcCount*3), Y: 10}) != nil {
			npcCount++
		}
	})
	printStat("npcs spawned", npcCount)

	resourceCount := spawnResources(coord)
	printStat("resources placed", resourceCount)
	fmt.Println()

	// 8. Event log: surface the interesting moments on the console
	subscribeEventLog(coord.Bus(), log)

	// 9. Run the loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("simulation ready")
	printReady(fmt.Sprintf("loop started (tick: %s)", cfg.Simulation.TickRate))
	printReady(fmt.Sprintf("combat level %d", player.CombatLevel()))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			coord.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer saveCancel()
			if err := coord.Save(saveCtx); err != nil {
				log.Error("final snapshot failed", zap.Error(err))
			} else {
				log.Info("final snapshot written", zap.String("player", player.Name))
			}
			return nil
		}
	}
}

// spawnResources places one resource per defined skilling action so every
// family is reachable in a fresh world.
func spawnResources(coord *game.Coordinator) int {
	placed := 0
	for i, id := range []string{
		"copper_rock", "iron_rock",
		"normal_tree", "oak_tree",
		"shrimp_spot", "trout_spot",
		"mans_pocket", "stall_bakery",
		"log_balance", "rope_swing",
		"campfire_site",
	} {
		if coord.SpawnResource(id, world.Position{X: int32(30 + i*2), Y: 20}) != nil {
			placed++
		}
	}
	return placed
}

// subscribeEventLog routes simulation events to the console logger.
func subscribeEventLog(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(ev event.LevelUp) {
		log.Info("level up", zap.String("skill", ev.Skill), zap.Int("level", ev.NewLevel))
	})
	event.Subscribe(bus, func(ev event.NpcDied) {
		log.Info("npc defeated", zap.String("name", ev.Name), zap.Int32("id", ev.NpcID))
	})
	event.Subscribe(bus, func(ev event.PlayerDied) {
		log.Warn("player died", zap.Int32("killer", ev.KillerID))
	})
	event.Subscribe(bus, func(ev event.ItemGained) {
		log.Info("item gained", zap.String("item", ev.Name), zap.Int32("count", ev.Count))
	})
	event.Subscribe(bus, func(ev event.PrayersExhausted) {
		log.Info("prayer points exhausted")
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
