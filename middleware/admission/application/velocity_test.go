package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"admission-gateway/middleware/admission/domain"
)

// fakeCounterStore implementa domain.CounterStore em memória, sem expiração
// real (TTLs são apenas registrados), com injeção de erro por operação.
type fakeCounterStore struct {
	counts map[string]int64
	flags  map[string]time.Duration
	ttls   map[string]time.Duration

	incrErr  error
	existErr error
	setErr   error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{
		counts: make(map[string]int64),
		flags:  make(map[string]time.Duration),
		ttls:   make(map[string]time.Duration),
	}
}

func (s *fakeCounterStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if s.incrErr != nil {
		return 0, s.incrErr
	}
	s.counts[key]++
	if s.counts[key] == 1 {
		s.ttls[key] = ttl
	}
	return s.counts[key], nil
}

func (s *fakeCounterStore) Exists(_ context.Context, key string) (bool, error) {
	if s.existErr != nil {
		return false, s.existErr
	}
	_, ok := s.flags[key]
	return ok, nil
}

func (s *fakeCounterStore) SetFlag(_ context.Context, key string, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.flags[key] = ttl
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestVelocityCheck_AllowsUpToThreshold(t *testing.T) {
	store := newFakeCounterStore()
	chk := VelocityCheck{Store: store, Threshold: 15, Bucket: time.Second, Now: fixedClock(time.Unix(100, 0))}
	req := domain.Request{Identity: "9.9.9.9"}

	for i := 1; i <= 15; i++ {
		dec, err := chk.Admit(context.Background(), req)
		if err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
		if !dec.Allowed {
			t.Fatalf("request %d: expected allow", i)
		}
		if dec.Count != int64(i) {
			t.Fatalf("request %d: expected count %d, got %d", i, i, dec.Count)
		}
	}
}

func TestVelocityCheck_SixteenthRequestBansAndRejects(t *testing.T) {
	store := newFakeCounterStore()
	chk := VelocityCheck{
		Store:     store,
		Threshold: 15,
		Bucket:    time.Second,
		BanTTL:    time.Hour,
		Prefix:    "admission",
		Now:       fixedClock(time.Unix(100, 0)),
	}
	req := domain.Request{Identity: "9.9.9.9"}

	for i := 0; i < 15; i++ {
		if dec, _ := chk.Admit(context.Background(), req); !dec.Allowed {
			t.Fatalf("request %d: expected allow", i+1)
		}
	}

	dec, err := chk.Admit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Allowed {
		t.Fatalf("expected 16th request to be rejected")
	}
	if dec.Status != 429 {
		t.Fatalf("expected 429, got %d", dec.Status)
	}
	if dec.Detail != domain.VelocityDetail {
		t.Fatalf("expected velocity detail, got %q", dec.Detail)
	}
	if dec.Count != 16 {
		t.Fatalf("expected observed count 16, got %d", dec.Count)
	}

	// o ban foi gravado com o TTL configurado
	if ttl, ok := store.flags["admission:ban:9.9.9.9"]; !ok || ttl != time.Hour {
		t.Fatalf("expected ban flag with 1h TTL, got %v (present=%v)", ttl, ok)
	}
}

func TestVelocityCheck_ExistingBanShortCircuits(t *testing.T) {
	store := newFakeCounterStore()
	store.flags["admission:ban:9.9.9.9"] = time.Hour

	chk := VelocityCheck{Store: store, Prefix: "admission", Now: fixedClock(time.Unix(100, 0))}
	dec, err := chk.Admit(context.Background(), domain.Request{Identity: "9.9.9.9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Allowed {
		t.Fatalf("expected rejection for banned identity")
	}
	if dec.Status != 403 {
		t.Fatalf("expected 403, got %d", dec.Status)
	}
	if dec.Detail != domain.BanDetail {
		t.Fatalf("expected ban detail, got %q", dec.Detail)
	}
	// banido não conta velocity: nenhum incremento deve ter acontecido
	if len(store.counts) != 0 {
		t.Fatalf("expected no counter increment for banned identity, got %v", store.counts)
	}
}

func TestVelocityCheck_NewBucketStartsFresh(t *testing.T) {
	store := newFakeCounterStore()
	at := time.Unix(100, 0)
	chk := VelocityCheck{Store: store, Threshold: 15, Bucket: time.Second, Now: func() time.Time { return at }}
	req := domain.Request{Identity: "9.9.9.9"}

	for i := 0; i < 15; i++ {
		if dec, _ := chk.Admit(context.Background(), req); !dec.Allowed {
			t.Fatalf("expected allow in first bucket")
		}
	}

	// próximo segundo => novo bucket, contagem recomeça (semântica de bucket
	// fixo: a rajada que atravessa a fronteira não dispara o ban)
	at = at.Add(time.Second)
	dec, err := chk.Admit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dec.Allowed {
		t.Fatalf("expected allow in fresh bucket")
	}
	if dec.Count != 1 {
		t.Fatalf("expected count 1 in fresh bucket, got %d", dec.Count)
	}
}

func TestVelocityCheck_CounterTTLIsTwiceBucket(t *testing.T) {
	store := newFakeCounterStore()
	chk := VelocityCheck{Store: store, Bucket: time.Second, Now: fixedClock(time.Unix(100, 0))}

	if _, err := chk.Admit(context.Background(), domain.Request{Identity: "k"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for key, ttl := range store.ttls {
		if !strings.Contains(key, ":vel:") {
			continue
		}
		if ttl != 2*time.Second {
			t.Fatalf("expected counter TTL 2s, got %s", ttl)
		}
		return
	}
	t.Fatalf("expected a velocity counter key to be created")
}

func TestVelocityCheck_PropagatesStoreErrors(t *testing.T) {
	// os erros sobem para o Service decidir o fail-open; o check nunca os engole
	boom := errors.New("boom")

	store := newFakeCounterStore()
	store.existErr = boom
	chk := VelocityCheck{Store: store}
	if _, err := chk.Admit(context.Background(), domain.Request{Identity: "k"}); !errors.Is(err, boom) {
		t.Fatalf("expected exists error to propagate, got %v", err)
	}

	store = newFakeCounterStore()
	store.incrErr = boom
	chk = VelocityCheck{Store: store}
	if _, err := chk.Admit(context.Background(), domain.Request{Identity: "k"}); !errors.Is(err, boom) {
		t.Fatalf("expected incr error to propagate, got %v", err)
	}
}

func TestVelocityCheck_NilStoreAllows(t *testing.T) {
	chk := VelocityCheck{}
	dec, err := chk.Admit(context.Background(), domain.Request{Identity: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dec.Allowed {
		t.Fatalf("expected allow without store")
	}
}
