package admission

import (
	"net"
	"net/http"
	"strings"

	"admission-gateway/middleware/admission/domain"
)

// IdentityFunc resolve a identidade canônica do cliente a partir da request.
type IdentityFunc func(r *http.Request) domain.Key

// localSentinel é a identidade usada quando nada mais está disponível.
// Nunca falhamos em resolver: estabilidade por cliente é o que importa para as
// chaves, não a boa-formação do endereço.
const localSentinel = "127.0.0.1"

// DefaultIdentityFunc resolve a identidade nesta ordem:
//
//  1. Header explícito (keyHeader), se configurado e presente.
//  2. Primeira entrada do X-Forwarded-For (endereço mais próximo do cliente
//     original visto pelo proxy confiável), se trustXFF.
//  3. Host do RemoteAddr.
//  4. Sentinela "127.0.0.1".
//
// Valores malformados são tratados como strings opacas, sem validação de
// formato de IP.
func DefaultIdentityFunc(keyHeader string, trustXFF bool) IdentityFunc {
	return func(r *http.Request) domain.Key {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return domain.Key(v)
			}
		}

		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if len(parts) > 0 {
					ip := strings.TrimSpace(parts[0])
					if ip != "" {
						return domain.Key(ip)
					}
				}
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return domain.Key(host)
		}
		if r.RemoteAddr != "" {
			return domain.Key(r.RemoteAddr)
		}
		return localSentinel
	}
}
