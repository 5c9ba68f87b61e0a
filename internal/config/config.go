package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v10"

	"mindfolk/internal/matching"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DatabaseURL     string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns      int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns      int32  `env:"DB_MIN_CONNS" envDefault:"1"`
	DBAutoMigrate   bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	AdminLoginLimit int    `env:"ADMIN_LOGIN_LIMIT" envDefault:"5"`

	// Sesiones propias de la API.
	SessionSecret        string `env:"SESSION_SECRET,required,notEmpty"`
	SessionAccessMinutes int    `env:"SESSION_ACCESS_TTL_MINUTES" envDefault:"15"`
	SessionRefreshHours  int    `env:"SESSION_REFRESH_TTL_HOURS" envDefault:"720"`

	// Clerk firma los session tokens con RS256; CLERK_JWT_KEY es la clave publica PEM.
	ClerkIssuer            string   `env:"CLERK_ISSUER"`
	ClerkJWTKey            string   `env:"CLERK_JWT_KEY"`
	ClerkAuthorizedParties []string `env:"CLERK_AUTHORIZED_PARTIES" envSeparator:","`

	// Embeddings opcionales para la dimension semantica del matching.
	EmbeddingAPIKey     string `env:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL    string `env:"EMBEDDING_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingModel      string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`

	DraftTTLHours       int `env:"DRAFT_TTL_HOURS" envDefault:"168"`
	DiscoverDefaultSize int `env:"DISCOVER_DEFAULT_SIZE" envDefault:"20"`
	DiscoverCandidates  int `env:"DISCOVER_CANDIDATES" envDefault:"200"`

	MatchWeights matching.Weights `envPrefix:"MATCH_WEIGHT_"`
}

// ClerkEnabled indica si hay configuracion suficiente para verificar tokens de Clerk.
func (c *Config) ClerkEnabled() bool {
	return strings.TrimSpace(c.ClerkJWTKey) != "" && strings.TrimSpace(c.ClerkIssuer) != ""
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.MatchWeights.Validate(); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDimensions <= 0 {
		return nil, errors.New("EMBEDDING_DIMENSIONS must be positive")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return nil, errors.New("DB_MIN_CONNS exceeds DB_MAX_CONNS")
	}
	return &cfg, nil
}
