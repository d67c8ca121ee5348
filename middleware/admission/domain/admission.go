package domain

import (
	"context"
	"time"
)

// Key identifica um cliente (ex: IP resolvido, API key, usuário).
type Key string

// Reason classifica o motivo de uma rejeição, para logs e estatísticas.
type Reason string

const (
	ReasonBot         Reason = "bot"
	ReasonBan         Reason = "ban"
	ReasonVelocity    Reason = "velocity"
	ReasonRateLimit   Reason = "rate_limit"
	ReasonConcurrency Reason = "concurrency"
)

// Request carrega os metadados necessários para as verificações de admissão.
//
// Propositalmente não carrega *http.Request: os checks não leem corpo nem
// headers arbitrários, apenas o que o adapter HTTP extraiu.
type Request struct {
	Identity  Key
	UserAgent string
	Method    string
	Path      string
}

// Decision é o resultado de uma verificação de admissão.
//
// Allowed=false é uma rejeição de política (não um erro): o adapter deve
// responder com Status e o corpo JSON {"detail": Detail} sem chamar o próximo
// handler.
type Decision struct {
	Allowed bool
	Status  int
	Detail  string
	Reason  Reason

	// Count é o valor do contador observado no momento da decisão, quando a
	// verificação é baseada em contagem (velocity, janela fixa). Zero caso
	// contrário.
	Count int64

	// RetryAfter é o valor recomendado para o header Retry-After ao rejeitar.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}

// Allow retorna uma decisão de aprovação.
func Allow() Decision { return Decision{Allowed: true} }

// Reject retorna uma decisão terminal com status e corpo fixos.
func Reject(status int, detail string, reason Reason) Decision {
	return Decision{Status: status, Detail: detail, Reason: reason}
}

// Check é uma etapa da cadeia de admissão.
//
// Um erro retornado indica falha de infraestrutura (ex: Redis fora do ar),
// nunca uma rejeição de política. A política de fail-open fica concentrada em
// quem percorre a cadeia (application.Service), não aqui.
type Check interface {
	Admit(ctx context.Context, req Request) (Decision, error)
}

// Corpos terminais fixos do gateway. Os textos são parte do contrato com os
// clientes (retry automático do lado deles depende deles).
const (
	BotDetail      = "Bot access denied."
	BanDetail      = "IP Banned for suspicious velocity. Try again in 1 hour."
	VelocityDetail = "Velocity limit exceeded. You are banned."
)

// Status HTTP usados nas decisões. Mesmos valores de net/http, duplicados
// aqui para manter este pacote sem dependência de net/http.
const (
	StatusForbidden          = 403
	StatusTooManyRequests    = 429
	StatusServiceUnavailable = 503
)
