// Package main provides a CLI tool for inspecting and editing a trainer's stored roster.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/creaturebattle/internal/config"
	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
	"github.com/cory-johannsen/creaturebattle/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	speciesDir := flag.String("species", "content/species", "path to species YAML directory")
	trainerID := flag.String("trainer", "", "target trainer id (required)")
	add := flag.String("add", "", "species id to append to the roster")
	remove := flag.String("remove", "", "creature id to remove from the roster")
	flag.Parse()

	if *trainerID == "" || (*add != "" && *remove != "") {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()
	if err := pool.CheckSchema(ctx); err != nil {
		log.Fatalf("checking schema: %v", err)
	}

	repo := pool.Rosters()

	switch {
	case *add != "":
		species, err := creature.LoadSpecies(*speciesDir)
		if err != nil {
			log.Fatalf("loading species: %v", err)
		}
		var sp *creature.Species
		for _, s := range species {
			if s.ID == *add {
				sp = s
			}
		}
		if sp == nil {
			log.Fatalf("unknown species %q", *add)
		}
		c := sp.NewCreature()
		slot, err := repo.AddCreature(ctx, *trainerID, c)
		if err != nil {
			log.Fatalf("adding %q: %v", *add, err)
		}
		fmt.Fprintf(os.Stdout, "added %s (%s) to %s at slot %d\n", c.Name, c.ID, *trainerID, slot)
	case *remove != "":
		if err := repo.RemoveCreature(ctx, *trainerID, *remove); err != nil {
			log.Fatalf("removing %q: %v", *remove, err)
		}
		fmt.Fprintf(os.Stdout, "removed %s from %s\n", *remove, *trainerID)
	}

	roster, err := repo.LoadRoster(ctx, *trainerID)
	if err != nil {
		log.Fatalf("loading roster for %q: %v", *trainerID, err)
	}
	for i, c := range roster {
		fmt.Fprintf(os.Stdout, "%d  %-36s  %-12s  %-6s  %d/%d\n", i, c.ID, c.Name, c.Element, c.HP, c.MaxHP)
	}
	fmt.Fprintf(os.Stdout, "%d creature(s) [%s]\n", len(roster), time.Since(start))
}
