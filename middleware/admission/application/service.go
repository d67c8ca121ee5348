package application

import (
	"context"

	"admission-gateway/middleware/admission/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Service percorre a cadeia de admissão na ordem configurada.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna a primeira
// decisão de rejeição, ou allow se todos os checks passarem.
//
// Fail-open: qualquer erro retornado por um check é tratado como falha de
// infraestrutura — o check é pulado, um warning é logado e a request segue.
// Essa é a única conversão erro->allow do gateway; os checks nunca decidem
// isso sozinhos.
type Service struct {
	Checks []domain.Check
	Logger *zerolog.Logger
}

func (s Service) Decide(ctx context.Context, req domain.Request) domain.Decision {
	logger := s.Logger
	if logger == nil {
		logger = &log.Logger
	}

	for _, chk := range s.Checks {
		dec, err := chk.Admit(ctx, req)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("identity", string(req.Identity)).
				Str("path", req.Path).
				Msg("admission check failed, failing open")
			continue
		}
		if !dec.Allowed {
			return dec
		}
	}
	return domain.Allow()
}
