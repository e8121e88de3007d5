package main

import (
	"flag"
	"os"

	"github.com/oggyb/roommate-match/internal/config"
	"github.com/oggyb/roommate-match/internal/db"
	"github.com/oggyb/roommate-match/internal/logger"
)

func main() {
	n := flag.Int("n", 40, "number of demo searches")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	// Load configuration
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.L()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	if err := db.SeedTestData(database, *n, *seed, log); err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	log.Info("seeding completed", "driver", cfg.DB.Driver)
}
