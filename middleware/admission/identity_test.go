package admission

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultIdentityFunc_PrefersHeaderWhenSet(t *testing.T) {
	fn := DefaultIdentityFunc("X-Client", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Client", " client-123 ")

	if got := fn(r); got != "client-123" {
		t.Fatalf("expected header key, got %q", got)
	}
}

func TestDefaultIdentityFunc_TrustXForwardedForUsesFirstIP(t *testing.T) {
	fn := DefaultIdentityFunc("", true)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")

	if got := fn(r); got != "9.9.9.9" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}
}

func TestDefaultIdentityFunc_UntrustedXFFIgnored(t *testing.T) {
	fn := DefaultIdentityFunc("", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "1.2.3.4")

	if got := fn(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host when XFF untrusted, got %q", got)
	}
}

func TestDefaultIdentityFunc_FallbacksToRemoteAddrHost(t *testing.T) {
	fn := DefaultIdentityFunc("", true)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"

	if got := fn(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}
}

func TestDefaultIdentityFunc_MalformedRemoteAddrIsOpaque(t *testing.T) {
	fn := DefaultIdentityFunc("", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "not-an-address"

	// sem validação de formato: o valor é usado como string opaca
	if got := fn(r); got != "not-an-address" {
		t.Fatalf("expected opaque RemoteAddr, got %q", got)
	}
}

func TestDefaultIdentityFunc_SentinelWhenNothingAvailable(t *testing.T) {
	fn := DefaultIdentityFunc("", true)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = ""

	if got := fn(r); got != "127.0.0.1" {
		t.Fatalf("expected sentinel identity, got %q", got)
	}
}
