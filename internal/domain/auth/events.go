package auth

// EventType tags a session-change outcome of an auth operation. Each
// browser-session machine feeds the events of its own operations through
// a single handler, so one session's sign-in never touches another's.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	// EventPasswordRecovery marks a session established from a password
	// reset link. Handlers must route the user to the reset flow even if
	// the session would otherwise look like a normal sign-in.
	EventPasswordRecovery EventType = "PASSWORD_RECOVERY"
)

// Event carries a session-change outcome into a machine's event funnel.
type Event struct {
	Type    EventType
	Session *Session
}
