// Package password implements password hashing and verification with bcrypt
// (default) and argon2id.
//
// # Output formats
//
// bcrypt hashes use the standard modular crypt form ($2a$/$2b$/$2y$). argon2id
// hashes use the PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Multi] hashes with one primary algorithm and verifies either format, so
// stored credentials survive an algorithm switch.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password strength policy is
// enforced by the validation package at registration.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other goLogin package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
