// Package flows contains pure-function orchestrators for every Engine operation.
//
// Each flow function (RunLogin, RunValidate, RunLogout, RunRefresh,
// RunCreateAccount, RunUnlockAccount) accepts a typed dependency struct and
// returns results without side-effects beyond those dependencies. Tests drive
// flows with plain function fakes.
//
// # Login state machine
//
// [RunLogin] evaluates, in strict order: lock check, identity lookup,
// credential check, counter update, session creation. A locked account
// short-circuits before any lookup or hashing. Unknown users and wrong
// passwords produce the same outcome kind and message template.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the session store, attempt limiter,
// user store, audit dispatcher and metrics. They do NOT own any of these
// resources; ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goLogin (to avoid import cycles).
//   - Perform I/O directly; all I/O is mediated through dependency functions.
package flows
