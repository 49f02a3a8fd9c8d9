// Package limiters provides the failed-login counter and lockout marker that
// back the login flow.
//
// # Keys
//
//   - <prefix>login_failed:<username>: integer counter, TTL re-armed to the
//     failure window on every increment (trailing window).
//   - <prefix>login_locked:<username>: opaque marker holding the threshold,
//     TTL = lock duration. Its TTL is the only remaining-time signal.
//
// Usernames are used exactly as entered; no case folding.
//
// # Architecture boundaries
//
// [AttemptLimiter] owns its key namespace and error type. Thresholds come
// from [AttemptConfig] supplied at construction time.
//
// # What this package must NOT do
//
//   - Import goLogin or any sibling internal package.
//   - Make policy decisions beyond counting; flow functions decide when to lock.
//   - Sweep expired keys; the store TTL is the only destructor.
package limiters
