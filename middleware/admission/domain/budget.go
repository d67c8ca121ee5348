package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Budget é a cota do limitador genérico: N requisições por janela.
type Budget struct {
	Limit  int
	Window time.Duration
}

// ParseBudget interpreta strings no formato "N/janela" (ex: "100/minute").
// Janelas aceitas: second, minute, hour, day. O formato é compatível com o
// usado na configuração de deployments existentes.
func ParseBudget(s string) (Budget, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return Budget{}, fmt.Errorf("invalid budget %q: expected N/window", s)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || limit <= 0 {
		return Budget{}, fmt.Errorf("invalid budget %q: limit must be a positive integer", s)
	}

	var window time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "second":
		window = time.Second
	case "minute":
		window = time.Minute
	case "hour":
		window = time.Hour
	case "day":
		window = 24 * time.Hour
	default:
		return Budget{}, fmt.Errorf("invalid budget %q: unknown window %q", s, parts[1])
	}

	return Budget{Limit: limit, Window: window}, nil
}

func (b Budget) String() string {
	switch b.Window {
	case time.Second:
		return strconv.Itoa(b.Limit) + "/second"
	case time.Minute:
		return strconv.Itoa(b.Limit) + "/minute"
	case time.Hour:
		return strconv.Itoa(b.Limit) + "/hour"
	case 24 * time.Hour:
		return strconv.Itoa(b.Limit) + "/day"
	}
	return fmt.Sprintf("%d/%s", b.Limit, b.Window)
}

// PerSecond converte a cota em requisições por segundo, para alimentar um
// token bucket (x/time/rate) no modo single-instance.
func (b Budget) PerSecond() float64 {
	if b.Window <= 0 {
		return 0
	}
	return float64(b.Limit) / b.Window.Seconds()
}
