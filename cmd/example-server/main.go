package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admission-gateway/middleware/admission"
	"admission-gateway/middleware/admission/application"
	"admission-gateway/middleware/admission/domain"
	"admission-gateway/middleware/admission/infra"

	"github.com/rs/zerolog/log"
)

func main() {
	// Exemplo: injetando a cadeia de admissão diretamente no seu webserver
	// (sem proxy, sem Redis). Velocity/ban rodam contra o store em memória,
	// então valem só para esta instância.
	store := infra.NewMemoryStore()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	store.StartJanitor(ctx, 2*time.Minute)

	limiters := infra.NewLimiterStore(5, 10)
	limiters.StartJanitor(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	h := http.Handler(mux)
	h = admission.Middleware(admission.Options{
		Checks: []domain.Check{
			application.NewBotCheck(nil),
			application.VelocityCheck{Store: store},
			application.BucketCheck{Limiters: limiters},
		},
		TrustXForwardedFor: true,
		Stats:              infra.NewMemoryStatsStore(),
	})(h)
	h = admission.ConcurrencyMiddleware(admission.ConcurrencyOptions{Max: 50})(h)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("listen", addr).Msg("example server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
