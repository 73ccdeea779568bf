// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/quickly-poll/models"
)

func TestOpenSQLiteAndCreateSchema(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "poll.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	// Twice, to check IF NOT EXISTS
	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}

	for _, table := range []string{"question", "question_option", "vote"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s: %v", table, err)
		}
	}
}

func TestOpenUnsupportedType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"poll.db", "poll.db?" + sqlitePragmas},
		{"file:poll.db?mode=rwc", "file:poll.db?mode=rwc&" + sqlitePragmas},
		{"poll.db?_pragma=journal_mode(WAL)", "poll.db?_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadSeed(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "seed.json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("valid", func(t *testing.T) {
		path := write(t, `[
			{"id": 1, "question": "Lunch?", "options": [{"key": "a", "text": "Yes"}, null, {"key": "b", "text": "No"}]},
			{"id": 2, "question": "Old?", "active": false, "options": [{"key": "x", "text": "X"}]}
		]`)

		seed, err := ReadSeed(path)
		if err != nil {
			t.Fatalf("ReadSeed() error = %v", err)
		}
		if len(seed) != 2 {
			t.Fatalf("Expected 2 questions, got %d", len(seed))
		}
		if len(seed[0].Options) != 2 || !seed[0].Active {
			t.Errorf("Expected 2 options and active, got %+v", seed[0])
		}
		if seed[1].Active {
			t.Error("Expected second question inactive")
		}
	})

	t.Run("duplicate keys", func(t *testing.T) {
		path := write(t, `[{"id": 1, "question": "Q", "options": [{"key": "a"}, {"key": "a"}]}]`)
		if _, err := ReadSeed(path); !errors.Is(err, models.ErrMalformedQuestion) {
			t.Errorf("Expected ErrMalformedQuestion, got %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		path := write(t, `[{"question": "Q", "options": []}]`)
		if _, err := ReadSeed(path); !errors.Is(err, models.ErrMalformedQuestion) {
			t.Errorf("Expected ErrMalformedQuestion, got %v", err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := ReadSeed(write(t, `{`)); err == nil {
			t.Error("Expected parse error")
		}
	})
}
