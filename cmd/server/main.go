package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"gorm.io/gorm"

	"github.com/oggyb/roommate-match/internal/app"
	"github.com/oggyb/roommate-match/internal/cache"
	"github.com/oggyb/roommate-match/internal/config"
	"github.com/oggyb/roommate-match/internal/db"
	"github.com/oggyb/roommate-match/internal/logger"
	"github.com/oggyb/roommate-match/internal/matching"
	"github.com/oggyb/roommate-match/internal/repository"
	"github.com/oggyb/roommate-match/internal/server"
	"github.com/oggyb/roommate-match/internal/service/roommate"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	scoring, err := config.LoadScoring(cfg.Scoring.Path)
	if err != nil {
		log.Error("failed to load scoring config", "path", cfg.Scoring.Path, "err", err)
		return err
	}

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return err
	}

	if cfg.App.SeedOnBoot {
		log.Warn("SEED_ON_BOOT set, replacing stored searches with demo data")
		if err := db.SeedTestData(database, 40, 1, log); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return err
	}
	defer redisCache.Close()

	engine := matching.New(
		matching.WithScoring(scoring),
		matching.WithLogger(log.With("component", "engine")),
	)
	if err := warmEngine(context.Background(), database, redisCache, engine); err != nil {
		log.Error("failed to restore engine", "err", err)
		return err
	}
	profiles, matches := engine.Stats()
	log.Info("engine restored", "profiles", profiles, "matches", matches)

	// Inject logger into app context
	appCtx := app.New(database, redisCache, log, engine)

	registrars := []server.Registrar{
		roommate.NewRegistrar(appCtx),
	}

	lis, err := server.Listen(cfg)
	if err != nil {
		log.Error("failed to listen", "err", err)
		return err
	}
	srv := server.NewGRPCServer(log, registrars...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting gRPC server", "addr", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("gRPC server failed", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.App.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	log.Info("server stopped")
	return nil
}

// warmEngine replays persisted searches into engine, then rewrites the
// matches table and drops cached counts so both agree with the engine.
func warmEngine(ctx context.Context, database *gorm.DB, rc *cache.RedisCache, engine *matching.Engine) error {
	profiles, err := repository.NewProfileRepository(database).List(ctx)
	if err != nil {
		return err
	}
	if err := engine.Restore(profiles); err != nil {
		return err
	}
	if err := repository.NewMatchRepository(database).Sync(ctx, engine.Matches()); err != nil {
		return err
	}

	users := make([]string, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, p.UserID)
	}
	return rc.InvalidateMatchCounts(ctx, users...)
}
