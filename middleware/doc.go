// Package middleware guards HTTP routes with goLogin sessions.
//
// [Guard] wraps a net/http handler and [GinGuard] is a gin handler. Both read
// "Authorization: Bearer <token>", call Engine.VerifySession and attach the
// resulting [goLogin.SessionInfo] to the request context, where
// [SessionFromContext] (or [GinSession]) finds it.
//
// Header problems are reported distinctly: [ErrMissingAuthorization],
// [ErrMalformedAuthorization] and [ErrNotBearer].
//
// Verification never extends a session.
package middleware
