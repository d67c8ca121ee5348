package domain

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable marca falhas de comunicação com o store compartilhado
// (timeout, conexão recusada). A cadeia de admissão trata toda essa classe de
// erro como "allow" (fail-open) em um único ponto.
var ErrStoreUnavailable = errors.New("shared store unavailable")

// CounterStore é o store compartilhado entre as instâncias do gateway
// (tipicamente Redis). Todas as operações são atômicas e de chave única;
// nenhuma transação multi-chave é necessária.
type CounterStore interface {
	// Increment incrementa atomicamente o contador da chave e retorna o valor
	// resultante. Na primeira escrita (valor 1) aplica o TTL informado, para
	// que contadores antigos se autodestruam sem processo de limpeza.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Exists verifica a presença de uma flag (ex: registro de ban).
	Exists(ctx context.Context, key string) (bool, error)

	// SetFlag grava uma flag booleana com TTL. A escrita é idempotente:
	// regravar uma flag existente apenas renova o TTL.
	SetFlag(ctx context.Context, key string, ttl time.Duration) error
}
