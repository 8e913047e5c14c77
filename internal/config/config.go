package config

import (
	"log"
	"os"
	"time"
)

// devSalt mirrors the fallback the service shipped with historically. It is
// acceptable for local development only; Load warns when it is in effect so
// operators notice before scan hashes become guessable.
const devSalt = "qr-app-salt-change-in-production"

type Config struct {
	Addr        string
	BaseURL     string
	DatabaseURL string
	HashSalt    string

	RedisURL string
	CacheTTL time.Duration

	SlugLen int
}

func Load() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	hashSalt := os.Getenv("IP_SALT")
	if hashSalt == "" {
		hashSalt = devSalt
		log.Println("WARNING: IP_SALT not set, falling back to the development salt; set IP_SALT in production")
	}

	return Config{
		Addr:        addr,
		BaseURL:     baseURL,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HashSalt:    hashSalt,
		RedisURL:    os.Getenv("REDIS_URL"),
		CacheTTL:    24 * time.Hour,
		SlugLen:     8,
	}
}
