package application

import (
	"context"
	"strings"

	"admission-gateway/middleware/admission/domain"
)

// DefaultBlocklist cobre crawlers, frameworks de scraping e agentes de IA
// mais comuns. Entradas são substrings case-insensitive do User-Agent.
var DefaultBlocklist = []string{
	"bot",
	"crawler",
	"spider",
	"scrapy",
	"selenium",
	"headlesschrome",
	"python-requests",
	"python-urllib",
	"go-http-client",
	"gptbot",
	"ccbot",
	"claudebot",
	"bytespider",
}

// BotCheck rejeita requisições cujo User-Agent contém alguma substring da
// blocklist. Puro e sem I/O: nunca retorna erro — User-Agent vazio simplesmente
// não casa com nada e passa.
type BotCheck struct {
	blocklist []string
}

// NewBotCheck cria o filtro com a blocklist informada (já normalizada para
// minúsculas). Com a lista vazia, usa DefaultBlocklist.
func NewBotCheck(blocklist []string) BotCheck {
	if len(blocklist) == 0 {
		blocklist = DefaultBlocklist
	}
	lowered := make([]string, 0, len(blocklist))
	for _, entry := range blocklist {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			lowered = append(lowered, entry)
		}
	}
	return BotCheck{blocklist: lowered}
}

func (c BotCheck) Admit(_ context.Context, req domain.Request) (domain.Decision, error) {
	ua := strings.ToLower(req.UserAgent)
	for _, entry := range c.blocklist {
		if strings.Contains(ua, entry) {
			return domain.Reject(domain.StatusForbidden, domain.BotDetail, domain.ReasonBot), nil
		}
	}
	return domain.Allow(), nil
}
