// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrMissingIdentity = errors.New("user identity required")

// maxIdentityLen bounds the identity header value
const maxIdentityLen = 320

// NormalizeIdentity trims and lower-cases an identity so that
// "Alice@Example.com " and "alice@example.com" are the same voter
func NormalizeIdentity(identity string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(identity))
	if id == "" || len(id) > maxIdentityLen {
		return "", ErrMissingIdentity
	}
	return id, nil
}

// HashIdentity derives the voter key stored alongside votes.
// Deterministic for a given salt; the raw identity never reaches the store.
func HashIdentity(identity, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(identity))
	return hex.EncodeToString(h.Sum(nil))
}

// VoterKey normalizes then hashes an identity
func VoterKey(identity, salt string) (string, error) {
	id, err := NormalizeIdentity(identity)
	if err != nil {
		return "", err
	}
	return HashIdentity(id, salt), nil
}
