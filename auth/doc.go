// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides caller identification utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(sessionID, salt)
	err := auth.ValidateAdminKey(sessionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same session ID and salt always produce the same key. This allows
validation without storing the key in the database. A valid key identifies
the caller as the session owner.

# Addresses

Voters and owners are identified by account addresses:

	addr, err := auth.NormalizeAddress("0x5290...9EE7")

Addresses must be 0x followed by 40 hex digits and are lower-cased so the
same account always maps to the same registry key.

# IP Hashing

For privacy-preserving request correlation in logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
