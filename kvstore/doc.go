// Package kvstore defines the expiring key-value contract that every piece of
// goLogin state lives in, plus a Redis adapter and an in-memory fake.
//
// # Contract
//
// Each key carries its own TTL. The store is the only destructor: nothing in
// goLogin sweeps keys, expiry is realized passively by the backend.
//
// [Store.IncrementWithExpiry] is the single operation that needs cross-caller
// atomicity. On Redis it runs as one Lua script (INCR + PEXPIRE); on [Memory]
// it runs inside one critical section. No caller can observe a counter that was
// incremented but whose TTL was not re-armed.
//
// # Architecture boundaries
//
// This package knows nothing about sessions, counters or lockouts. Callers
// build namespaced keys and interpret values.
//
// # What this package must NOT do
//
//   - Convert backend failures into "absent" results. Every failure surfaces
//     wrapped in [ErrUnavailable].
//   - Start background goroutines.
package kvstore
