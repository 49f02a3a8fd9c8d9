// Package httpapi serves the login engine over HTTP with gin.
//
// Routes, all under /api:
//
//	POST /register   201 created, 400 invalid or duplicate
//	POST /login      200 with token, 401 invalid credentials or locked
//	GET  /verify     200 valid, 401 missing/invalid token
//	POST /logout     200 removed, 400 no such session, 401 bad header
//	POST /refresh    200 lifetime reset, 401 no such session
//	GET  /user/info  200, 401, 404 when the user is gone
//	GET  /health     200, 503 when the session store is down
//
// Every reply is a [Response] envelope. Infrastructure failures are 500.
package httpapi
