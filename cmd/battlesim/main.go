// Package main runs a bot-vs-bot battle from the command line.
//
// Sides are built from species IDs in the species directory, or loaded from
// trainer rosters in PostgreSQL when database.enabled is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/creaturebattle/internal/config"
	"github.com/cory-johannsen/creaturebattle/internal/game/battle"
	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
	"github.com/cory-johannsen/creaturebattle/internal/game/dice"
	"github.com/cory-johannsen/creaturebattle/internal/observability"
	"github.com/cory-johannsen/creaturebattle/internal/scripting"
	"github.com/cory-johannsen/creaturebattle/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	speciesDir := flag.String("species", "content/species", "path to species YAML directory")
	sideA := flag.String("a", "emberling,sproutling", "side A: comma-separated species ids, or a trainer id when the database is enabled")
	sideB := flag.String("b", "puddlet,emberling", "side B: comma-separated species ids, or a trainer id when the database is enabled")
	maxRounds := flag.Int("max-rounds", 200, "abort the battle after this many rounds")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	shutdown, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("initializing tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("flushing traces", zap.Error(err))
		}
	}()

	src, err := dice.NewSourceFromConfig(cfg.Battle, logger)
	if err != nil {
		logger.Fatal("building tie-break source", zap.Error(err))
	}
	mode, err := battle.ParseMode(cfg.Battle.Mode)
	if err != nil {
		logger.Fatal("parsing battle mode", zap.Error(err))
	}

	a, b, err := loadSides(ctx, cfg, *speciesDir, *sideA, *sideB, logger)
	if err != nil {
		logger.Fatal("building sides", zap.Error(err))
	}

	opts := battle.Options{
		Source:    src,
		MinDamage: cfg.Battle.MinDamage,
		Mode:      mode,
		Logger:    logger,
	}
	if cfg.Battle.ScriptDir != "" {
		scriptMgr := scripting.NewManager(src, logger)
		defer scriptMgr.Close()
		if err := scriptMgr.LoadGlobal(cfg.Battle.ScriptDir, cfg.Battle.InstructionLimit); err != nil {
			logger.Fatal("loading battle scripts", zap.Error(err))
		}
		opts.Hooks = scripting.NewBattleHooks(scriptMgr, "battlesim")
		logger.Info("battle scripts loaded", zap.String("dir", cfg.Battle.ScriptDir))
	}

	mgr := battle.NewManager(battle.ManagerOptions{
		Defaults:     opts,
		RestoreOnEnd: cfg.Battle.RestoreOnEnd,
	})
	id, err := mgr.Start(ctx, a, b)
	if err != nil {
		logger.Fatal("starting battle", zap.Error(err))
	}

	snap, err := simulate(ctx, mgr, id, src, *maxRounds, logger)
	if err != nil {
		logger.Fatal("running battle", zap.Error(err))
	}
	if err := mgr.End(id); err != nil {
		logger.Warn("ending battle", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, verdict(snap, time.Since(start)))
}

// loadSides builds both combatants from species IDs, or from stored rosters
// when the database is enabled.
func loadSides(ctx context.Context, cfg config.Config, speciesDir, specA, specB string, logger *zap.Logger) (*battle.Combatant, *battle.Combatant, error) {
	var rosterA, rosterB []*creature.Creature
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		if err := pool.CheckSchema(ctx); err != nil {
			return nil, nil, err
		}
		repo := pool.Rosters()
		if rosterA, err = repo.LoadRoster(ctx, specA); err != nil {
			return nil, nil, fmt.Errorf("trainer %q: %w", specA, err)
		}
		if rosterB, err = repo.LoadRoster(ctx, specB); err != nil {
			return nil, nil, fmt.Errorf("trainer %q: %w", specB, err)
		}
		logger.Info("rosters loaded from database",
			zap.String("side_a", specA),
			zap.String("side_b", specB),
		)
	} else {
		species, err := creature.LoadSpecies(speciesDir)
		if err != nil {
			return nil, nil, err
		}
		reg := creature.NewRegistry()
		for _, s := range species {
			if err := reg.Register(s); err != nil {
				return nil, nil, err
			}
		}
		logger.Info("species loaded", zap.Strings("ids", reg.IDs()))
		if rosterA, err = reg.Roster(splitIDs(specA)...); err != nil {
			return nil, nil, fmt.Errorf("side a: %w", err)
		}
		if rosterB, err = reg.Roster(splitIDs(specB)...); err != nil {
			return nil, nil, fmt.Errorf("side b: %w", err)
		}
	}

	a, err := battle.NewCombatant("a", "Side A", battle.KindBot, rosterA)
	if err != nil {
		return nil, nil, err
	}
	b, err := battle.NewCombatant("b", "Side B", battle.KindBot, rosterB)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func splitIDs(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// simulate drives the battle with random legal actions until it ends.
func simulate(ctx context.Context, mgr *battle.Manager, id string, src dice.Source, maxRounds int, logger *zap.Logger) (battle.Snapshot, error) {
	for {
		snap, err := mgr.Snapshot(id)
		if err != nil {
			return battle.Snapshot{}, err
		}
		switch snap.Status {
		case battle.StatusEnded:
			return snap, nil
		case battle.StatusAwaitingForcedSwap:
			out, err := mgr.AutoSwap(ctx, id, snap.ForcedSwapSide, src)
			if err != nil {
				return snap, err
			}
			logEvents(logger, out.Events)
			continue
		}
		if snap.Round >= maxRounds {
			return snap, errors.New("round limit reached")
		}
		for _, side := range snap.Sides {
			if err := mgr.Submit(ctx, id, side.ID, pickAction(side, src)); err != nil {
				return snap, err
			}
		}
		out, err := mgr.ResolveRound(ctx, id)
		if err != nil {
			return snap, err
		}
		logEvents(logger, out.Events)
	}
}

// pickAction chooses uniformly among the active creature's skills and the
// side's swap targets.
func pickAction(side battle.SideSnapshot, src dice.Source) battle.Action {
	active := side.ActiveCreature()
	var swaps []string
	for i, c := range side.Roster {
		if i != side.Active && !c.Fainted() {
			swaps = append(swaps, c.ID)
		}
	}
	n := src.Intn(len(active.Skills) + len(swaps))
	if n < len(active.Skills) {
		return battle.AttackWith(active.Skills[n].ID)
	}
	return battle.SwapTo(swaps[n-len(active.Skills)])
}

func logEvents(logger *zap.Logger, events []battle.Event) {
	for _, e := range events {
		fields := []zap.Field{
			zap.Stringer("kind", e.Kind),
			zap.String("side", e.SideID),
			zap.String("creature", e.CreatureName),
		}
		if e.Kind == battle.EventDamage {
			fields = append(fields,
				zap.String("skill", e.SkillID),
				zap.String("target", e.TargetName),
				zap.Int("damage", e.Damage),
				zap.Int("target_hp", e.TargetHP),
				zap.Float64("effectiveness", e.Effectiveness),
			)
		}
		logger.Info("battle event", fields...)
	}
}

func verdict(snap battle.Snapshot, elapsed time.Duration) string {
	winnerID, draw := snap.WinnerID, snap.Draw
	switch {
	case draw:
		return fmt.Sprintf("draw after %d rounds [%s]", snap.Round, elapsed)
	case winnerID != "":
		for _, s := range snap.Sides {
			if s.ID == winnerID {
				return fmt.Sprintf("%s wins after %d rounds [%s]", s.Name, snap.Round, elapsed)
			}
		}
	}
	return fmt.Sprintf("no result after %d rounds [%s]", snap.Round, elapsed)
}
