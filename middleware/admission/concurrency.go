package admission

import (
	"net/http"
	"time"

	"admission-gateway/middleware/admission/application"
	"admission-gateway/middleware/admission/domain"
	"admission-gateway/middleware/admission/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ConcurrencyOptions struct {
	Max            int
	AcquireTimeout time.Duration
	Logger         *zerolog.Logger
}

// ConcurrencyMiddleware limita o número de requisições em voo no gateway.
// Estágio opcional, mais externo que a cadeia de admissão (protege inclusive
// as idas ao store compartilhado). Rejeição usa 503 com corpo JSON no mesmo
// formato das demais respostas terminais.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	logger := opts.Logger
	if logger == nil {
		logger = &log.Logger
	}

	svc := application.ConcurrencyService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				dec := domain.Reject(
					domain.StatusServiceUnavailable,
					"Too many concurrent requests.",
					domain.ReasonConcurrency,
				)
				logger.Info().
					Str("path", r.URL.Path).
					Str("reason", string(dec.Reason)).
					Msg("request rejected")
				writeDecision(w, dec)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
