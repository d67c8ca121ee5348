package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admission-gateway/middleware/admission"
	"admission-gateway/middleware/admission/application"
	"admission-gateway/middleware/admission/domain"
	"admission-gateway/middleware/admission/infra"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	setupLogger(cfg.LogLevel)

	target, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid UPSTREAM_URL")
	}

	budget, err := domain.ParseBudget(cfg.RateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid RATE_LIMIT")
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("proxy error")
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Cadeia de admissão, na ordem: bot -> ban/velocity -> limitador genérico.
	checks := []domain.Check{application.NewBotCheck(cfg.BotBlocklist)}

	var stats domain.StatsStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			// Indisponibilidade do Redis não derruba o gateway: os checks
			// passam a falhar aberto até ele voltar.
			log.Warn().Err(err).Msg("redis unreachable at startup, checks will fail open")
		}

		store := infra.NewRedisStore(rdb, infra.WithTimeout(cfg.StoreTimeout))
		checks = append(checks,
			application.VelocityCheck{
				Store:     store,
				Threshold: cfg.VelocityThreshold,
				Bucket:    cfg.VelocityBucket,
				BanTTL:    cfg.BanDuration,
				Prefix:    cfg.KeyPrefix,
			},
			application.WindowCheck{
				Store:  store,
				Budget: budget,
				Prefix: cfg.KeyPrefix,
			},
		)

		if cfg.StatsEnabled {
			stats = infra.NewRedisStatsStore(
				rdb,
				infra.WithStatsPrefix(cfg.StatsPrefix),
				infra.WithStatsTTL(cfg.StatsTTL),
				infra.WithStatsBucket(cfg.StatsBucket),
				infra.WithStatsTrackKeys(cfg.StatsTrackKeys),
			)
		}
	} else {
		// Sem store compartilhado não há coordenação entre instâncias:
		// velocity/ban ficam desligados e o limitador genérico roda em
		// memória, por instância.
		log.Warn().Msg("REDIS_ADDR not set, distributed coordination disabled")

		limiters := infra.NewLimiterStore(budget.PerSecond(), budget.Limit)
		limiters.StartJanitor(ctx)
		checks = append(checks, application.BucketCheck{
			Limiters: limiters,
			Budget:   budget,
		})
	}

	h := http.Handler(proxy)
	h = admission.Middleware(admission.Options{
		Checks:             checks,
		KeyHeader:          cfg.KeyHeader,
		TrustXForwardedFor: cfg.TrustXFF,
		Stats:              stats,
	})(h)
	h = admission.ConcurrencyMiddleware(admission.ConcurrencyOptions{
		Max:            cfg.ConcurrencyMax,
		AcquireTimeout: cfg.ConcurrencyTimeout,
	})(h)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("listen", cfg.ListenAddr).
		Str("upstream", target.String()).
		Bool("redis", cfg.RedisAddr != "").
		Int("velocity_threshold", cfg.VelocityThreshold).
		Dur("velocity_bucket", cfg.VelocityBucket).
		Dur("ban_duration", cfg.BanDuration).
		Str("rate_limit", budget.String()).
		Int("concurrency_max", cfg.ConcurrencyMax).
		Msg("gateway listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}

// setupLogger configura o zerolog global a partir de LOG_LEVEL.
func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
