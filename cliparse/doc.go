// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres or firestore (default: sqlite)
  - DatabaseURL: SQL connection string (required for sqlite and postgres)
  - FirestoreProject: Firestore project ID (required for firestore)
  - FirestoreCredentials: Service account file (optional)
  - IdentitySalt: Secret for voter key HMAC (required)
  - Language: en or ar (default: en)
  - TextFile: Text configuration JSON (optional)
  - SeedFile: Question seed JSON (optional)
  - LogLevel, LogFormat: debug/info/warn/error, text/json

# CLI Flags

	-p                      Server port
	-t                      Database type
	-d                      Database URL
	-firestore-project      Firestore project ID
	-firestore-credentials  Service account file
	-identity-salt          Voter identity salt
	-lang                   Poll language
	-text                   Text configuration file
	-seed                   Question seed file
	-log-level              Log level
	-log-format             Log format
	-env                    Environment file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                   → -p
	DATABASE_TYPE          → -t
	DATABASE_URL           → -d
	FIRESTORE_PROJECT      → -firestore-project
	FIRESTORE_CREDENTIALS  → -firestore-credentials
	IDENTITY_SALT          → -identity-salt
	POLL_LANGUAGE          → -lang
	POLL_TEXT_FILE         → -text
	POLL_SEED_FILE         → -seed
	LOG_LEVEL              → -log-level
	LOG_FORMAT             → -log-format

CLI flags take precedence over environment variables. Variables in the -env
file are loaded with godotenv and never override the real environment.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
*/
package cliparse
