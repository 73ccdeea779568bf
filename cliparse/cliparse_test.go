// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

var configEnv = []string{
	"PORT", "DATABASE_URL", "DATABASE_TYPE", "FIRESTORE_PROJECT", "FIRESTORE_CREDENTIALS",
	"IDENTITY_SALT", "POLL_LANGUAGE", "POLL_TEXT_FILE", "POLL_SEED_FILE", "POLL_RETIRE_UNSEEDED", "LOG_LEVEL", "LOG_FORMAT",
}

// unsetConfigEnv clears every config variable for the test and restores it after
func unsetConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		if v, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func noEnvFile(t *testing.T) []string {
	return []string{"-env", filepath.Join(t.TempDir(), "missing.env")}
}

func TestParseFlags_EnvVars(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("IDENTITY_SALT", "test-salt")
	t.Setenv("POLL_LANGUAGE", "ar")

	cfg, err := ParseFlags(noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.Language != "ar" {
		t.Errorf("expected language ar, got %s", cfg.Language)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("expected default logging, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("PORT", "9000")

	args := append(noEnvFile(t), "-p", "8080", "-d", "file:test.db", "-identity-salt", "s1", "-log-format", "json")
	cfg, err := ParseFlags(args)
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected json log format, got %s", cfg.LogFormat)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	unsetConfigEnv(t)

	cfg, err := ParseFlags(append(noEnvFile(t), "-d", "poll.db", "-identity-salt", "s"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.Language != "en" {
		t.Errorf("expected default language en, got %s", cfg.Language)
	}
	if !cfg.IsSQL() {
		t.Error("expected sqlite to be a SQL store")
	}
}

func TestParseFlags_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing salt", []string{"-d", "poll.db"}},
		{"missing database url", []string{"-identity-salt", "s"}},
		{"unsupported type", []string{"-t", "mysql", "-d", "x", "-identity-salt", "s"}},
		{"firestore without project", []string{"-t", "firestore", "-identity-salt", "s"}},
		{"bad flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetConfigEnv(t)
			if _, err := ParseFlags(append(noEnvFile(t), tt.args...)); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("invalid PORT", func(t *testing.T) {
		unsetConfigEnv(t)
		t.Setenv("PORT", "abc")
		if _, err := ParseFlags(append(noEnvFile(t), "-d", "x", "-identity-salt", "s")); err == nil {
			t.Error("expected error for invalid PORT")
		}
	})
}

func TestParseFlags_Firestore(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("FIRESTORE_PROJECT", "poll-project")

	cfg, err := ParseFlags(append(noEnvFile(t), "-t", "firestore", "-identity-salt", "s"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IsSQL() {
		t.Error("firestore is not a SQL store")
	}
	if cfg.FirestoreProject != "poll-project" {
		t.Errorf("expected project from env, got %q", cfg.FirestoreProject)
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=6000\nDATABASE_URL=from-file.db\nIDENTITY_SALT=file-salt\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "from-file.db" || cfg.IdentitySalt != "file-salt" {
		t.Errorf("expected values from env file, got %+v", cfg)
	}
	// Real environment wins over the file
	if cfg.Port != 7000 {
		t.Errorf("expected port 7000 from environment, got %d", cfg.Port)
	}
}

func TestParseFlags_RetireUnseeded(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("POLL_SEED_FILE", "questions.json")
	t.Setenv("POLL_RETIRE_UNSEEDED", "true")

	cfg, err := ParseFlags(append(noEnvFile(t), "-d", "poll.db", "-identity-salt", "s"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.RetireUnseeded || cfg.SeedFile != "questions.json" {
		t.Errorf("expected retire with seed file, got %+v", cfg)
	}

	unsetConfigEnv(t)
	if _, err := ParseFlags(append(noEnvFile(t), "-d", "poll.db", "-identity-salt", "s", "-retire-unseeded")); err == nil {
		t.Error("expected error when retiring without a seed file")
	}

	unsetConfigEnv(t)
	t.Setenv("POLL_RETIRE_UNSEEDED", "sometimes")
	if _, err := ParseFlags(append(noEnvFile(t), "-d", "poll.db", "-identity-salt", "s", "-seed", "q.json")); err == nil {
		t.Error("expected error for invalid POLL_RETIRE_UNSEEDED")
	}
}
