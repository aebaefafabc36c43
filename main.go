package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/mpcontacts/config"
	"sjsage522/mpcontacts/internal"
	"sjsage522/mpcontacts/internal/crawler"
	"sjsage522/mpcontacts/internal/profiles"
	"sjsage522/mpcontacts/logger"
	"sjsage522/mpcontacts/services/cache"
	"sjsage522/mpcontacts/services/publisher"
	"sjsage522/mpcontacts/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := config.LoadConfig()
	logger.Init(cfg.LogLevel, cfg.Environment)

	if err := run(cfg); err != nil {
		logger.Default.Error().Err(err).Msg("Exiting")
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	log := logger.Default

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ps, err := loadProfiles(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := initializeServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close publisher")
		}
	}()

	crawlers, err := crawler.CreateCrawlers(ps, deps.Gate, crawler.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	if len(crawlers) == 0 {
		return errors.New("no crawlers were created")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("crawl_interval", cfg.CrawlInterval).
		Int("crawler_count", len(crawlers)).
		Msg("Starting application")

	w := worker.NewWorker(crawlers, deps.Publisher, cfg.CrawlInterval, cfg.Environment)
	results := w.Start(ctx)

	total, failed := worker.Summarize(results)
	log.Info().
		Int("records", total.Records).
		Int("discovered", total.Discovered).
		Int("fetch_errors", total.FetchErrors).
		Int("field_misses", total.FieldMisses).
		Int("skipped", total.Skipped).
		Strs("failed", failed).
		Msg("Shutting down gracefully")

	if ctx.Err() == nil && len(failed) == len(results) {
		return fmt.Errorf("every jurisdiction failed: %v", failed)
	}
	return nil
}

// loadProfiles returns the built-in profiles, overridden by PROFILES_FILE and
// narrowed to JURISDICTIONS
func loadProfiles(cfg config.Config) ([]profiles.Profile, error) {
	set := profiles.Builtin()
	if cfg.ProfilesFile != "" {
		loaded, err := profiles.LoadFile(cfg.ProfilesFile)
		if err != nil {
			return nil, err
		}
		set.Override(loaded...)
		logger.Info("Loaded %d profiles from %s", len(loaded), cfg.ProfilesFile)
	}
	return set.Select(cfg.Jurisdictions)
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg config.Config) (*internal.Dependencies, error) {
	deps := &internal.Dependencies{}

	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := mc.Ping(); err != nil {
			logger.Warn("Memcache at %s is not reachable yet: %v", cfg.MemcacheAddr, err)
		} else {
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
		deps.Cache = mc
	} else {
		deps.Cache = cache.NewMemoryService()
		logger.Info("MEMCACHE_ADDR not set, keeping rate limit blocks in memory")
	}
	deps.Gate = cache.NewGate(deps.Cache, cfg.BlockTime)

	var pubs publisher.Multi
	if cfg.OutputPath != "" {
		fp, err := publisher.NewFilePublisher(cfg.OutputPath)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, fp)
		logger.Info("Writing records to %s", fp.Path())
	}
	if cfg.RedisEnabled {
		rp := publisher.NewRedisPublisher(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err := rp.Ping(ctx); err != nil {
			pubs.Close()
			rp.Close()
			return nil, err
		}
		pubs = append(pubs, rp)
		logger.Info("Connected to Redis at %s", cfg.RedisAddr)
	}
	deps.Publisher = pubs

	return deps, nil
}
