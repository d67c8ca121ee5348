package main

import (
	"time"
)

// config é a superfície de configuração do gateway, toda via ambiente.
// REDIS_ADDR vazio desliga a coordenação distribuída: velocity/ban e o
// limitador de janela fixa deixam de rodar e o gateway degrada para o token
// bucket em memória (fail-open por construção).
type config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	UpstreamURL string `env:"UPSTREAM_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT" envDefault:"200ms"`

	KeyHeader string `env:"KEY_HEADER"`
	TrustXFF  bool   `env:"TRUST_XFF" envDefault:"true"`

	BotBlocklist []string `env:"BOT_BLOCKLIST" envSeparator:","`

	VelocityThreshold int           `env:"VELOCITY_THRESHOLD" envDefault:"15"`
	VelocityBucket    time.Duration `env:"VELOCITY_BUCKET" envDefault:"1s"`
	BanDuration       time.Duration `env:"BAN_DURATION" envDefault:"1h"`
	KeyPrefix         string        `env:"KEY_PREFIX" envDefault:"admission"`

	RateLimit string `env:"RATE_LIMIT" envDefault:"100/minute"`

	ConcurrencyMax     int           `env:"CONCURRENCY_MAX" envDefault:"0"`
	ConcurrencyTimeout time.Duration `env:"CONCURRENCY_TIMEOUT" envDefault:"0"`

	StatsEnabled   bool          `env:"STATS_ENABLED" envDefault:"false"`
	StatsPrefix    string        `env:"STATS_PREFIX" envDefault:"admission:stats"`
	StatsTTL       time.Duration `env:"STATS_TTL" envDefault:"24h"`
	StatsBucket    string        `env:"STATS_BUCKET" envDefault:"minute"`
	StatsTrackKeys bool          `env:"STATS_TRACK_KEYS" envDefault:"false"`
}
