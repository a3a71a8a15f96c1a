// Package main seeds trainer rosters into PostgreSQL from a YAML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/creaturebattle/internal/config"
	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
	"github.com/cory-johannsen/creaturebattle/internal/importer"
	"github.com/cory-johannsen/creaturebattle/internal/observability"
	"github.com/cory-johannsen/creaturebattle/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	speciesDir := flag.String("species", "content/species", "path to species YAML directory")
	trainersFile := flag.String("trainers", "", "path to trainer roster YAML file")
	flag.Parse()

	if *trainersFile == "" {
		fmt.Fprintln(os.Stderr, "usage: import-rosters -trainers <file> [-config <file>] [-species <dir>]")
		os.Exit(1)
	}

	start := time.Now()
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

	species, err := creature.LoadSpecies(*speciesDir)
	if err != nil {
		logger.Fatal("loading species", zap.Error(err))
	}
	reg := creature.NewRegistry()
	for _, s := range species {
		if err := reg.Register(s); err != nil {
			logger.Fatal("registering species", zap.Error(err))
		}
	}

	f, err := importer.LoadTrainerFile(*trainersFile)
	if err != nil {
		logger.Fatal("loading trainers", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.CheckSchema(ctx); err != nil {
		logger.Fatal("checking schema", zap.Error(err))
	}

	res, err := importer.New(reg, pool.Rosters(), logger).Run(ctx, f)
	if err != nil {
		logger.Fatal("importing rosters", zap.Error(err))
	}
	fmt.Printf("imported %d trainer(s), %d creature(s), skipped %d in %s\n",
		res.Trainers, res.Creatures, len(res.Skipped), time.Since(start).Round(time.Millisecond))
}
