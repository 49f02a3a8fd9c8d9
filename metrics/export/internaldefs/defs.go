package internaldefs

import (
	goLogin "github.com/MrEthical07/goLogin"
)

// CounterDef binds an engine counter to its exported name.
type CounterDef struct {
	ID   goLogin.MetricID
	Name string
	Help string
}

// HistogramDef binds an engine latency histogram to its exported name.
type HistogramDef struct {
	ID   goLogin.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: goLogin.MetricLoginSuccess, Name: "gologin_login_success_total", Help: "Logins that issued a session."},
	{ID: goLogin.MetricLoginFailure, Name: "gologin_login_failure_total", Help: "Logins rejected for invalid credentials."},
	{ID: goLogin.MetricLoginLocked, Name: "gologin_login_locked_total", Help: "Logins rejected because the account was locked."},
	{ID: goLogin.MetricLoginUserNotFound, Name: "gologin_login_user_not_found_total", Help: "Failed logins against unknown usernames."},
	{ID: goLogin.MetricAccountLocked, Name: "gologin_account_locked_total", Help: "Lockouts triggered by reaching the attempt threshold."},
	{ID: goLogin.MetricLoginInfraFailure, Name: "gologin_login_infra_failure_total", Help: "Logins that ended in a store error."},
	{ID: goLogin.MetricPasswordHashError, Name: "gologin_password_hash_error_total", Help: "Stored password hashes that could not be verified."},
	{ID: goLogin.MetricSessionCreated, Name: "gologin_session_created_total", Help: "Sessions created."},
	{ID: goLogin.MetricSessionValidated, Name: "gologin_session_validated_total", Help: "Session lookups that found a live session."},
	{ID: goLogin.MetricSessionMiss, Name: "gologin_session_miss_total", Help: "Session lookups for unknown, expired or malformed tokens."},
	{ID: goLogin.MetricLogout, Name: "gologin_logout_total", Help: "Sessions removed by logout."},
	{ID: goLogin.MetricLogoutMiss, Name: "gologin_logout_miss_total", Help: "Logouts for tokens with no session."},
	{ID: goLogin.MetricSessionRefreshed, Name: "gologin_session_refreshed_total", Help: "Sessions whose lifetime was reset."},
	{ID: goLogin.MetricSessionRefreshMiss, Name: "gologin_session_refresh_miss_total", Help: "Refreshes for tokens with no session."},
	{ID: goLogin.MetricAccountCreationSuccess, Name: "gologin_account_creation_success_total", Help: "Accounts registered."},
	{ID: goLogin.MetricAccountCreationDuplicate, Name: "gologin_account_creation_duplicate_total", Help: "Registrations rejected as duplicate usernames."},
	{ID: goLogin.MetricAccountCreationInvalid, Name: "gologin_account_creation_invalid_total", Help: "Registrations rejected by input validation."},
	{ID: goLogin.MetricAccountUnlocked, Name: "gologin_account_unlocked_total", Help: "Manual account unlocks."},
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []HistogramDef{
	{ID: goLogin.MetricLoginLatency, Name: "gologin_login_latency_seconds", Help: "Login latency histogram."},
	{ID: goLogin.MetricValidateLatency, Name: "gologin_validate_latency_seconds", Help: "Session verification latency histogram."},
}

// HistogramBounds are the upper bounds of the engine buckets in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix names each bound for exporters that cannot carry labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// AuditDroppedName is the counter for events discarded by the audit buffer.
const (
	AuditDroppedName = "gologin_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped because the dispatcher buffer was full."
)

// NormalizeBuckets copies raw into a fixed array, zero-filling or truncating.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
