// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-poll/models"
)

// Supported SQL database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Open connects to a SQL database of the given type and verifies the
// connection. SQLite runs with a single connection so writes serialize.
func Open(dbType, url string) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch dbType {
	case TypeSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(url))
		if err == nil {
			conn.SetMaxOpenConns(1)
		}
	case TypePostgres:
		conn, err = sql.Open("postgres", url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	if strings.Contains(url, "_pragma=") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + sqlitePragmas
	}
	return url + "?" + sqlitePragmas
}

// ReadSeed parses a seed file: a JSON array of questions with an optional
// "active" flag (default true). Null options are dropped.
func ReadSeed(path string) ([]models.SeedQuestion, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed []models.SeedQuestion
	if err := json.Unmarshal(b, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, q := range seed {
		if q.ID <= 0 {
			return nil, fmt.Errorf("seed entry %d: question id must be positive: %w", i, models.ErrMalformedQuestion)
		}
		if _, err := q.Normalize(); err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
	}

	return seed, nil
}
