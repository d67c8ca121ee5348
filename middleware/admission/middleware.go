package admission

import (
	"net/http"
	"time"

	"admission-gateway/middleware/admission/application"
	"admission-gateway/middleware/admission/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	// Checks é a cadeia de admissão, na ordem de avaliação.
	Checks []domain.Check

	// IdentityFn resolve a identidade do cliente. Se nil, usa
	// DefaultIdentityFunc(KeyHeader, TrustXForwardedFor).
	IdentityFn         IdentityFunc
	KeyHeader          string
	TrustXForwardedFor bool

	// Stats recebe todas as decisões (best-effort). Pode ser nil.
	Stats domain.StatsStore

	// Logger para rejeições e falhas de store. Se nil, usa o logger global.
	Logger *zerolog.Logger
}

// Middleware monta a cadeia de admissão como um middleware net/http padrão.
//
// Ou a request passa intacta para o próximo handler, ou é encerrada aqui com
// uma das respostas terminais JSON — nunca as duas coisas.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.IdentityFn == nil {
		opts.IdentityFn = DefaultIdentityFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	logger := opts.Logger
	if logger == nil {
		logger = &log.Logger
	}

	svc := application.Service{
		Checks: opts.Checks,
		Logger: logger,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := domain.Request{
				Identity:  opts.IdentityFn(r),
				UserAgent: r.UserAgent(),
				Method:    r.Method,
				Path:      r.URL.Path,
			}

			dec := svc.Decide(r.Context(), req)

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     req.Identity,
					Allowed: dec.Allowed,
					Reason:  dec.Reason,
					Method:  req.Method,
					Path:    req.Path,
					At:      time.Now(),
				})
			}

			if !dec.Allowed {
				logRejection(logger, req, dec)
				writeDecision(w, dec)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// logRejection loga toda rejeição com identidade, motivo e contadores.
// A severidade é proporcional à confiança de abuso: um ban recém-criado por
// velocity é error, bot/ban existente é warn, o limitador genérico é info.
func logRejection(logger *zerolog.Logger, req domain.Request, dec domain.Decision) {
	var ev *zerolog.Event
	switch dec.Reason {
	case domain.ReasonVelocity:
		ev = logger.Error()
	case domain.ReasonBot, domain.ReasonBan:
		ev = logger.Warn()
	default:
		ev = logger.Info()
	}

	ev = ev.
		Str("identity", string(req.Identity)).
		Str("reason", string(dec.Reason)).
		Str("path", req.Path).
		Int("status", dec.Status)
	if dec.Reason == domain.ReasonBot {
		ev = ev.Str("user_agent", req.UserAgent)
	}
	if dec.Count > 0 {
		ev = ev.Int64("count", dec.Count)
	}
	ev.Msg("request rejected")
}
