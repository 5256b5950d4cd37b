package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
)

// HeaderAuthToken is the request header carrying the bearer token.
const HeaderAuthToken = "x-auth-token"

// MinPasswordLength is the minimum accepted password length on signup
// and password change.
const MinPasswordLength = 8
