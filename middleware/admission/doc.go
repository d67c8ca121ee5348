// Package admission fornece o adapter HTTP (net/http) do controle de admissão:
// a cadeia de interceptadores que decide, antes de qualquer lógica de negócio,
// se uma requisição pode prosseguir, deve ser limitada ou rejeitada.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: os checks e a cadeia (bot, velocity/ban, limitador, concorrência)
//   - infra: implementações concretas (Redis, memória, token bucket, semáforo)
//   - admission (este pacote): middleware HTTP + resolução de identidade +
//     tradução de Decision para status/corpo JSON/headers
//
// Fluxo por requisição:
//
//  1. Resolve a identidade do cliente (header explícito / XFF / RemoteAddr)
//  2. Filtro de bot (pode encerrar com 403)
//  3. Consulta de ban (pode encerrar com 403)
//  4. Incremento de velocity + teste de limite (pode criar ban e encerrar com 429)
//  5. Limitador genérico (pode encerrar com 429)
//  6. Se tudo passou, chama o próximo handler (ex: reverse proxy)
//
// Falha de infraestrutura (Redis fora do ar, timeout) nunca bloqueia: o check
// afetado é pulado com um warning no log (fail-open). Variáveis de ambiente do
// binário gateway (cmd/gateway) controlam o comportamento, como REDIS_ADDR,
// VELOCITY_THRESHOLD, BAN_DURATION e RATE_LIMIT.
package admission
