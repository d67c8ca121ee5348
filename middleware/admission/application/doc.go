// Package application contém os casos de uso (regras de aplicação) do controle
// de admissão: a cadeia ordenada de verificações e cada verificação individual
// (filtro de bot, velocity/ban, limitador genérico, concorrência).
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Decide(ctx, req) percorre os checks e retorna uma Decision.
// A política de fail-open (erro de store => allow + log) vive aqui, em um
// único ponto auditável.
package application
