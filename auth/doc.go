// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth derives voter keys from user identities.

# Identities

The host page identifies the user (for example by e-mail) in the
X-User-Identity header. NormalizeIdentity trims and lower-cases it:

	id, err := auth.NormalizeIdentity(" Alice@Example.com")  // "alice@example.com"

# Voter Keys

Stores never see raw identities. HashIdentity uses HMAC-SHA256 with a server
salt to produce a deterministic hex key:

	key := auth.HashIdentity(id, salt)

VoterKey does both steps. Since the key is deterministic, the same user
always maps to the same voter and the store's one-vote-per-voter constraint
holds across sessions.
*/
package auth
