package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabaseSQLite    = "sqlite"
	DatabasePostgres  = "postgres"
	DatabaseFirestore = "firestore"
)

type Config struct {
	Port                 int
	DatabaseURL          string
	DatabaseType         string
	FirestoreProject     string
	FirestoreCredentials string
	IdentitySalt         string
	Language             string
	TextFile             string
	SeedFile             string
	RetireUnseeded       bool
	LogLevel             string
	LogFormat            string
}

// IsSQL reports whether the configured store is a SQL database
func (c Config) IsSQL() bool {
	return c.DatabaseType == DatabaseSQLite || c.DatabaseType == DatabasePostgres
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("quickly-poll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or firestore)")
	fs.StringVar(&cfg.FirestoreProject, "firestore-project", "", "Firestore project ID")
	fs.StringVar(&cfg.FirestoreCredentials, "firestore-credentials", "", "Firestore service account file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IdentitySalt, "identity-salt", "", "Voter identity salt (prefer env)")

	// Presentation
	fs.StringVar(&cfg.Language, "lang", "", "Poll language (en or ar)")
	fs.StringVar(&cfg.TextFile, "text", "", "Text configuration JSON file")
	fs.StringVar(&cfg.SeedFile, "seed", "", "Question seed JSON file")
	fs.BoolVar(&cfg.RetireUnseeded, "retire-unseeded", false, "Deactivate active questions missing from the seed file")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")

	fs.StringVar(&envFile, "env", ".env", "Environment file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// A missing .env is fine; values already in the environment win
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = getEnv("DATABASE_TYPE", DatabaseSQLite)
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabaseFirestore:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.IsSQL() && cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.FirestoreProject == "" {
		cfg.FirestoreProject = os.Getenv("FIRESTORE_PROJECT")
	}
	if cfg.FirestoreCredentials == "" {
		cfg.FirestoreCredentials = os.Getenv("FIRESTORE_CREDENTIALS")
	}
	if cfg.DatabaseType == DatabaseFirestore && cfg.FirestoreProject == "" {
		return Config{}, errors.New("firestore project required (use -firestore-project or FIRESTORE_PROJECT env)")
	}

	// Secrets - MUST be provided
	if cfg.IdentitySalt == "" {
		cfg.IdentitySalt = os.Getenv("IDENTITY_SALT")
	}
	if cfg.IdentitySalt == "" {
		return Config{}, errors.New("IDENTITY_SALT required")
	}

	if cfg.Language == "" {
		cfg.Language = getEnv("POLL_LANGUAGE", "en")
	}
	if cfg.TextFile == "" {
		cfg.TextFile = os.Getenv("POLL_TEXT_FILE")
	}
	if cfg.SeedFile == "" {
		cfg.SeedFile = os.Getenv("POLL_SEED_FILE")
	}
	if !cfg.RetireUnseeded {
		if v := os.Getenv("POLL_RETIRE_UNSEEDED"); v != "" {
			retire, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid POLL_RETIRE_UNSEEDED env variable")
			}
			cfg.RetireUnseeded = retire
		}
	}
	if cfg.RetireUnseeded && cfg.SeedFile == "" {
		return Config{}, errors.New("retire-unseeded requires a seed file (use -seed or POLL_SEED_FILE env)")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = getEnv("LOG_FORMAT", "text")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
