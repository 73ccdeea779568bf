// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/models"
)

// SetupTestDB creates a fresh SQLite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: db.TypeSQLite,
		DatabaseURL:  "test.db",
		IdentitySalt: "test-identity-salt",
		Language:     "en",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// CreateTestQuestion inserts a question with options keyed "a", "b", ... in
// order and returns the options
func CreateTestQuestion(t *testing.T, conn *sql.DB, id int, text string, active bool, labels ...string) []models.Option {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO question (id, question, active, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, text, active, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	options := make([]models.Option, 0, len(labels))
	for i, label := range labels {
		key := string(rune('a' + i))
		_, err := conn.Exec(`
			INSERT INTO question_option (question_id, ordinal, option_key, label)
			VALUES ($1, $2, $3, $4)
		`, id, i, key, label)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		options = append(options, models.Option{Key: key, Text: label})
	}

	return options
}

// CastTestVote records a vote directly, bypassing the store
func CastTestVote(t *testing.T, conn *sql.DB, questionID int, optionKey, voter string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (id, question_id, option_key, voter, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), questionID, optionKey, voter, time.Now())
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// IdentityHeader builds the header map for a request made as identity
func IdentityHeader(identity string) map[string]string {
	return map[string]string{models.HeaderUserIdentity: identity}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
