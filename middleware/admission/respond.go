package admission

import (
	"encoding/json"
	"net/http"

	"admission-gateway/middleware/admission/domain"
)

// detailBody é o corpo terminal padrão do gateway: {"detail": "..."}.
type detailBody struct {
	Detail string `json:"detail"`
}

// writeDecision escreve uma rejeição como resposta terminal JSON.
// Nunca é chamada com Decision permitida.
func writeDecision(w http.ResponseWriter, dec domain.Decision) {
	if dec.RetryAfter > 0 {
		w.Header().Set("Retry-After", formatInt(int(dec.RetryAfter.Seconds())))
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(dec.Status)
	_ = json.NewEncoder(w).Encode(detailBody{Detail: dec.Detail})
}
