// Package session provides opaque-token session persistence over an expiring
// key-value store, plus the compact binary record encoding.
//
// # Binary encoding
//
// A session record is a fixed schema: version byte, length-prefixed userID,
// length-prefixed username, big-endian int64 creation time. Decoding rejects
// unknown versions and trailing bytes.
//
// # Lifetime
//
// Records expire through the store TTL only. There is no sliding renewal on
// read; [Store.Refresh] resets the TTL to the full lifetime, it does not add.
//
// # Architecture boundaries
//
// This package owns the [Store] and the [Session] model. It does NOT check
// credentials, count failed attempts, or decide lockouts.
//
// # What this package must NOT do
//
//   - Import goLogin or any flow package (no upward imports).
//   - Treat a payload that fails to decode as an absent session.
//   - Store plaintext secrets in [Session] fields.
package session
