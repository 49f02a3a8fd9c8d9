// Package goLogin provides a login engine with a per-username failed-attempt
// limiter and opaque, Redis-backed sessions.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build]. All decision
// state lives in the key-value store, so several processes may share one Redis.
//
// # Login decision
//
// [Engine.Login] checks the lockout marker first and, while it is present, rejects the
// attempt without consulting the user store or the password hash. Otherwise it looks the
// user up, verifies the password, and either counts a failure (locking on the failure that
// reaches Config.Login.MaxLoginAttempts) or clears the counter and issues a session.
// Unknown usernames and wrong passwords produce the same outcome kind and message.
//
// # Architecture boundaries
//
// goLogin is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (LoginOutcome, SessionInfo, LockState, MetricsSnapshot). Flow orchestration, attempt
// counting, and audit dispatch live under internal/. Session encoding lives in session/,
// the store abstraction in kvstore/.
//
// # What this package must NOT do
//
//   - Let an audit sink failure change a login outcome.
//   - Treat a key-value store failure during the lock check as "not locked".
//   - Import userstore, httpapi, or middleware (they import goLogin).
package goLogin
