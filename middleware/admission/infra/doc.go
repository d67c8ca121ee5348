// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - RedisStore: contadores atômicos e flags de ban em Redis (go-redis)
//   - MemoryStore: mesma semântica em memória, para testes e modo single-instance
//   - LimiterStore: token bucket por chave usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para limite de concorrência
package infra
