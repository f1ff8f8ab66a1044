package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerPort string        `env:"SERVER_PORT" envDefault:"8080"`
	MongoURL   string        `env:"MONGODB_URL" envDefault:"mongodb://localhost:27017"`
	MongoDB    string        `env:"MONGODB_DATABASE" envDefault:"accountd"`
	JWTSecret  string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"0"`
	AvatarSize int           `env:"AVATAR_SIZE" envDefault:"250"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
