package infra

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implementa domain.CounterStore em memória, com a mesma semântica
// de TTL do RedisStore. Útil para testes e para rodar o gateway sem Redis em
// uma única instância (sem coordenação entre processos).
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time // zero => sem expiração
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent := s.live(key, now)
	if ent == nil {
		ent = &memoryEntry{}
		if ttl > 0 {
			ent.expiresAt = now.Add(ttl)
		}
		s.entries[key] = ent
	}
	ent.count++
	return ent.count, nil
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(key, time.Now()) != nil, nil
}

func (s *MemoryStore) SetFlag(_ context.Context, key string, ttl time.Duration) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent := &memoryEntry{count: 1}
	if ttl > 0 {
		ent.expiresAt = now.Add(ttl)
	}
	s.entries[key] = ent
	return nil
}

// live retorna a entrada se ela existe e não expirou; entradas expiradas são
// removidas na leitura (expiração preguiçosa), além da varredura do Cleanup.
// Deve ser chamada com o mutex adquirido.
func (s *MemoryStore) live(key string, now time.Time) *memoryEntry {
	ent, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !ent.expiresAt.IsZero() && now.After(ent.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return ent
}

func (s *MemoryStore) Cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if !ent.expiresAt.IsZero() && now.After(ent.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que remove chaves expiradas periodicamente.
// Pare cancelando o contexto.
func (s *MemoryStore) StartJanitor(ctx DoneContext, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
