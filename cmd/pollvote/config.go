// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type config struct {
	ServerURL string
	Identity  string
	Language  string
}

// parseConfig reads flags, then the .env file, then the environment
func parseConfig(args []string) (config, error) {
	var cfg config
	var envFile string

	fs := flag.NewFlagSet("pollvote", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "server", "", "Poll server URL")
	fs.StringVar(&cfg.Identity, "identity", "", "Voter identity, e.g. an email address")
	fs.StringVar(&cfg.Language, "lang", "", "Display language (en or ar)")
	fs.StringVar(&envFile, "env", ".env", "Environment file")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	// A missing .env is fine; values already in the environment win
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = getEnv("POLL_SERVER_URL", "http://localhost:3318")
	}
	if cfg.Identity == "" {
		cfg.Identity = os.Getenv("POLL_IDENTITY")
	}
	if cfg.Identity == "" {
		return config{}, errors.New("identity required (use -identity or POLL_IDENTITY env)")
	}
	if cfg.Language == "" {
		cfg.Language = os.Getenv("POLL_LANGUAGE")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
