package main

import (
	"log"

	"github.com/joho/godotenv"

	"qrtrack/internal/app"
	"qrtrack/internal/config"
	"qrtrack/internal/db"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	gdb, err := db.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open db:", err)
	}

	a := app.New(cfg, gdb)
	log.Fatal(a.Run(cfg.Addr))
}
