package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão de admissão, para fins de observabilidade.
//
// Ele é propositalmente "agnóstico de HTTP": Method/Path são strings genéricas.
// Reason só é preenchido em rejeições.
//
// Observação: cuidado com cardinalidade (salvar Key sem controle pode explodir
// o número de chaves em uma base como Redis).
type StatsEvent struct {
	Key     Key
	Allowed bool
	Reason  Reason

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de admissão.
//
// Implementações podem armazenar em Redis, memória, etc.
// O middleware trata erro como best-effort (não derruba a request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
