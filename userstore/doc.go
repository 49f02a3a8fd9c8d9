// Package userstore provides [goLogin.UserStore] and [goLogin.AuditLog]
// implementations.
//
// [Gorm] persists users and the login log through gorm. [Open] chooses
// between [OpenMySQL] and [OpenSQLite] from the DSN. [Memory] keeps
// everything in process.
//
// Both return (nil, nil) from lookups that match nothing and
// goLogin.ErrUsernameTaken from Create on a duplicate username.
package userstore
