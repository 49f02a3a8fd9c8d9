// Package audit implements async event dispatching for login decisions and
// account changes.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, fan-out, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full semantics and
//     panic isolation per event.
//   - [Event]: structured audit record with timestamp, type, status, user,
//     IP, user agent and message.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; that responsibility belongs to the Engine and flow functions.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import goLogin or any sibling internal package.
//   - Let a sink failure reach the caller of [Dispatcher.Emit].
package audit
