package constants

// Session and context keys
const (
	SessionCookieName  = "okr_session"
	SessionKeyRemember = "remember_me"
	ContextKeyUserID   = "user_id"
	ContextKeyUser     = "current_user"
	ContextKeyRequest  = "request_id"

	ContextKeyObjective = "objective"
	ContextKeyKeyResult = "key_result"
)

// Authentication
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 64

	// RememberMeMaxAge is the session lifetime when "remember me" is checked (30 days)
	RememberMeMaxAge = 86400 * 30
)

// Dashboard
const (
	// MaxUpcomingObjectives caps the upcoming list on the dashboard
	MaxUpcomingObjectives = 5
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Forms
const (
	DateFormat = "2006-01-02"
)
