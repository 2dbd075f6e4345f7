package main

import (
	"fmt"
	"os"

	"gorefract/adapters/postgres"
	"gorefract/internal"
	"gorefract/internal/config"
	"gorefract/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()
	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		fmt.Fprintln(os.Stderr, errors.ConfigInvalid("DATABASE_URL is required"))
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "failed to connect to database"))
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.CreateSchema(db); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Info("database schema ready")
}
