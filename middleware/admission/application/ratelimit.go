package application

import (
	"context"
	"strconv"
	"time"

	"admission-gateway/middleware/admission/domain"
)

// WindowCheck é o limitador genérico no modo distribuído: janela fixa por
// (identidade, janela) no store compartilhado. Independente do VelocityCheck —
// é um controle mais grosso, de janela mais longa, e não cria ban.
type WindowCheck struct {
	Store  domain.CounterStore
	Budget domain.Budget
	Prefix string

	// Now permite injetar o relógio em testes. nil => time.Now.
	Now func() time.Time
}

func (c WindowCheck) Admit(ctx context.Context, req domain.Request) (domain.Decision, error) {
	if c.Store == nil || c.Budget.Limit <= 0 || c.Budget.Window <= 0 {
		return domain.Allow(), nil
	}

	prefix := c.Prefix
	if prefix == "" {
		prefix = "admission"
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	at := now()
	slot := at.UnixNano() / int64(c.Budget.Window)
	key := prefix + ":rl:" + string(req.Identity) + ":" + strconv.FormatInt(slot, 10)

	count, err := c.Store.Increment(ctx, key, c.Budget.Window)
	if err != nil {
		return domain.Decision{}, err
	}

	if count > int64(c.Budget.Limit) {
		dec := domain.Reject(
			domain.StatusTooManyRequests,
			"Rate limit exceeded: "+c.Budget.String()+".",
			domain.ReasonRateLimit,
		)
		dec.Count = count
		// Recomenda esperar até a janela corrente fechar.
		windowEnd := time.Unix(0, (slot+1)*int64(c.Budget.Window))
		if d := windowEnd.Sub(at); d > 0 {
			dec.RetryAfter = d
		}
		return dec, nil
	}

	dec := domain.Allow()
	dec.Count = count
	return dec, nil
}

// BucketCheck é o limitador genérico no modo single-instance: token bucket
// por chave em memória. Usado quando não há store compartilhado configurado.
type BucketCheck struct {
	Limiters   domain.LimiterStore
	Budget     domain.Budget
	RetryAfter time.Duration
}

func (c BucketCheck) Admit(_ context.Context, req domain.Request) (domain.Decision, error) {
	if c.Limiters == nil {
		return domain.Allow(), nil
	}

	lim := c.Limiters.Get(req.Identity)
	if lim == nil || lim.Allow() {
		return domain.Allow(), nil
	}

	detail := "Rate limit exceeded."
	if c.Budget.Limit > 0 {
		detail = "Rate limit exceeded: " + c.Budget.String() + "."
	}
	dec := domain.Reject(domain.StatusTooManyRequests, detail, domain.ReasonRateLimit)
	dec.RetryAfter = c.RetryAfter
	if dec.RetryAfter <= 0 {
		dec.RetryAfter = 1 * time.Second
	}
	return dec, nil
}
