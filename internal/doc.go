// Package internal holds helpers private to goLogin. Today that is the
// session token type, drawn from crypto/rand and encoded as 22 characters of
// unpadded base64url.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher and Sink implementations)
//   - flows: function-injected orchestrators for every Engine operation
//   - limiters: failed-login counter and lockout marker
package internal
