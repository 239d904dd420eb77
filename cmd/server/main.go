// Command server runs the JogR backend API: Strava OAuth, activity
// import, league rankings, and the social endpoints the mobile client
// talks to.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jogr-app/jogr-backend/config"
	"github.com/jogr-app/jogr-backend/internal/application/command"
	"github.com/jogr-app/jogr-backend/internal/application/query"
	"github.com/jogr-app/jogr-backend/internal/application/token"
	"github.com/jogr-app/jogr-backend/internal/infrastructure/external/strava"
	"github.com/jogr-app/jogr-backend/internal/infrastructure/persistence/postgres"
	"github.com/jogr-app/jogr-backend/internal/infrastructure/persistence/redis"
	httpiface "github.com/jogr-app/jogr-backend/internal/interface/http"
	"github.com/jogr-app/jogr-backend/internal/interface/http/handlers"
	"github.com/jogr-app/jogr-backend/pkg/circuitbreaker"
	"github.com/jogr-app/jogr-backend/pkg/logger"
	"github.com/jogr-app/jogr-backend/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting jogr backend",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version))

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = int32(cfg.Database.MaxConns)
	pgCfg.MinConns = int32(cfg.Database.MinConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	log.Info("connecting to database")
	conn, err := postgres.NewConnection(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	log.Info("running database migrations")
	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	userRepo := postgres.NewUserRepository(conn, log)
	activityRepo := postgres.NewActivityRepository(conn, log)
	socialRepo := postgres.NewSocialRepository(conn, log)
	achievementRepo := postgres.NewAchievementRepository(conn, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var rankingCache *redis.RankingCache
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled && cfg.Cache.Enabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		log.Info("connecting to redis")
		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Rankings recompute on every request without the cache.
			log.Warn("redis unavailable, running without ranking cache", logger.Err(err))
		} else {
			defer redisCache.Close()
			rankingCache = redis.NewRankingCache(redisCache, cfg.Cache.RankingTTL, log)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. STRAVA CLIENT
	// ─────────────────────────────────────────────────────────────────────────
	stravaCfg := strava.DefaultClientConfig(cfg.Strava.ClientID, cfg.Strava.ClientSecret)
	stravaCfg.TokenURL = cfg.Strava.TokenURL
	stravaCfg.ActivitiesURL = cfg.Strava.ActivitiesURL
	stravaCfg.Timeout = cfg.Strava.RequestTimeout
	stravaCfg.RateLimiterConfig = strava.RateLimiterConfig{
		RequestsPerSecond: cfg.Strava.RateLimit,
		BurstSize:         cfg.Strava.RateLimitBurst,
		WaitTimeout:       cfg.Strava.RequestTimeout,
	}
	stravaCfg.CircuitBreakerConfig = circuitbreaker.Config{
		Name:             "strava",
		FailureThreshold: cfg.Strava.CircuitBreakerThreshold,
		OpenTimeout:      cfg.Strava.CircuitBreakerTimeout,
	}
	stravaCfg.RetryConfig = retry.Config{
		MaxAttempts: cfg.Strava.MaxRetries,
		BaseDelay:   cfg.Strava.RetryBaseDelay,
		MaxDelay:    cfg.Strava.RetryMaxDelay,
	}
	stravaCfg.Logger = log

	stravaClient := strava.NewClient(stravaCfg)
	tokenManager := token.NewManager(userRepo, stravaClient, cfg.Strava.RefreshAhead, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewCompositeHealthChecker(5 * time.Second)
	health.AddCheck("postgres", conn.Ping)
	if redisCache != nil {
		health.AddCheck("redis", redisCache.Ping)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpiface.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpCfg.MobileScheme = cfg.App.MobileScheme
	httpCfg.AdminAPIKeyHashes = cfg.HTTP.AdminAPIKeyHashes

	deps := httpiface.Dependencies{
		GetLeagueRanking:    query.NewGetLeagueRankingHandler(activityRepo, userRepo, cacheOrNil(rankingCache), log),
		GetLeagueActivities: query.NewGetLeagueActivitiesHandler(activityRepo, log),
		GetUserActivities:   query.NewGetUserActivitiesHandler(activityRepo, log),
		GetStravaActivities: query.NewGetStravaActivitiesHandler(tokenManager, stravaClient, log),
		GetComments:         query.NewGetCommentsHandler(socialRepo, log),
		GetAchievements:     query.NewGetAchievementsHandler(achievementRepo, log),

		ConnectStrava:    command.NewConnectStravaHandler(userRepo, stravaClient, log),
		SaveActivity:     command.NewSaveActivityHandler(activityRepo, invalidatorOrNil(rankingCache), log),
		ToggleLike:       command.NewToggleLikeHandler(socialRepo, log),
		AddComment:       command.NewAddCommentHandler(socialRepo, userRepo, log),
		SaveAchievements: command.NewSaveAchievementsHandler(achievementRepo, log),

		HealthChecker: health,
		Logger:        log,
	}
	if rankingCache != nil {
		deps.RankingInvalidator = rankingCache
	}

	server := httpiface.NewServer(httpCfg, deps)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. RUN UNTIL SIGNALED
	// ─────────────────────────────────────────────────────────────────────────
	errCh := server.StartAsync()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("jogr backend stopped")
	return nil
}

// setupLogger builds the process logger from config.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	return logger.New(opts)
}

// cacheOrNil avoids a typed-nil interface when the cache is absent.
func cacheOrNil(c *redis.RankingCache) query.RankingCache {
	if c == nil {
		return nil
	}
	return c
}

// invalidatorOrNil avoids a typed-nil interface when the cache is absent.
func invalidatorOrNil(c *redis.RankingCache) command.RankingInvalidator {
	if c == nil {
		return nil
	}
	return c
}
