package application

import (
	"context"
	"strconv"
	"time"

	"admission-gateway/middleware/admission/domain"
)

// VelocityCheck é a máquina de estados central do gateway: conta requisições
// por cliente por bucket de tempo e escala para um ban temporário quando o
// limite é excedido.
//
// Estados por identidade: Clear -> Banned (flag com TTL no store) -> Clear
// automaticamente quando o TTL expira. Não há saída manual de Banned.
//
// A contagem usa buckets discretos (não janela deslizante): uma rajada que
// atravessa a fronteira de dois buckets pode não disparar o ban. Aproximação
// aceita em troca de operações O(1) de chave única.
type VelocityCheck struct {
	Store     domain.CounterStore
	Threshold int
	Bucket    time.Duration
	BanTTL    time.Duration

	// Prefix separa as chaves deste gateway no store compartilhado.
	Prefix string

	// Now permite injetar o relógio em testes. nil => time.Now.
	Now func() time.Time
}

func (c VelocityCheck) Admit(ctx context.Context, req domain.Request) (domain.Decision, error) {
	if c.Store == nil {
		// Sem store compartilhado não há coordenação distribuída: fail-open.
		return domain.Allow(), nil
	}

	threshold := c.Threshold
	if threshold <= 0 {
		threshold = 15
	}
	bucket := c.Bucket
	if bucket <= 0 {
		bucket = time.Second
	}
	banTTL := c.BanTTL
	if banTTL <= 0 {
		banTTL = time.Hour
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = "admission"
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	// 1) Ban existente tem precedência sobre qualquer contagem.
	banKey := prefix + ":ban:" + string(req.Identity)
	banned, err := c.Store.Exists(ctx, banKey)
	if err != nil {
		return domain.Decision{}, err
	}
	if banned {
		dec := domain.Reject(domain.StatusForbidden, domain.BanDetail, domain.ReasonBan)
		dec.RetryAfter = banTTL
		return dec, nil
	}

	// 2) Incremento atômico no bucket corrente. O TTL (2x a largura do bucket)
	// é aplicado apenas na primeira escrita; contadores velhos se autodestroem.
	slot := now().UnixNano() / int64(bucket)
	counterKey := prefix + ":vel:" + string(req.Identity) + ":" + strconv.FormatInt(slot, 10)
	count, err := c.Store.Increment(ctx, counterKey, 2*bucket)
	if err != nil {
		return domain.Decision{}, err
	}

	// 3) Limite excedido: grava o ban (idempotente) e rejeita.
	if count > int64(threshold) {
		if err := c.Store.SetFlag(ctx, banKey, banTTL); err != nil {
			return domain.Decision{}, err
		}
		dec := domain.Reject(domain.StatusTooManyRequests, domain.VelocityDetail, domain.ReasonVelocity)
		dec.Count = count
		dec.RetryAfter = banTTL
		return dec, nil
	}

	dec := domain.Allow()
	dec.Count = count
	return dec, nil
}
