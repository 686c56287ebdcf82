package session

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"skarbonka/internal/domain/auth"
)

// State names the position of a browser session in its lifecycle.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	// StateAuthenticatedUnverified covers the window between a sign-in
	// and the whitelist answer.
	StateAuthenticatedUnverified     State = "authenticated_unverified"
	StateAuthenticatedWhitelisted    State = "authenticated_whitelisted"
	StateAuthenticatedNotWhitelisted State = "authenticated_not_whitelisted"
	StatePasswordRecovery            State = "password_recovery"
)

var ErrMalformedRecoveryLink = errors.New("recovery link is malformed")

// AuthProvider is the slice of the auth service the machine drives. Each
// operation returns the resulting session (or nil) so the machine can
// apply the outcome to its own state without observing anyone else's.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	ConfirmEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	EstablishSession(ctx context.Context, accessToken, refreshToken string) (*auth.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Session, error)
	UpdatePassword(ctx context.Context, userID, password string) (*auth.Session, error)
}

// Whitelist answers membership questions and seeds pre-approved members.
type Whitelist interface {
	EnsureByEmail(ctx context.Context, userID, email string)
	IsWhitelisted(ctx context.Context, userID string) (bool, error)
}

// Snapshot is a point-in-time read of the machine for handlers.
type Snapshot struct {
	State              State         `json:"state"`
	Session            *auth.Session `json:"session,omitempty"`
	IsPasswordRecovery bool          `json:"isPasswordRecovery"`
}

// Machine tracks one browser session's auth state. Every auth outcome,
// whatever operation produced it, funnels through handleEvent so that
// whitelist resolution happens in exactly one place. Events come only
// from this machine's own operations; nothing another session does can
// reach it.
type Machine struct {
	auth      AuthProvider
	whitelist Whitelist
	log       zerolog.Logger

	mu      sync.Mutex
	session *auth.Session
	// recovery stays set from recovery-link consumption until the
	// password is updated or the session ends.
	recovery bool
	// membership is nil until the whitelist has answered for the current
	// session.
	membership *bool
	// consumed records the recovery access tokens this machine has
	// already exchanged, so re-processing a scrubbed URL is a no-op. A
	// token is recorded only once its exchange succeeds; a failed link
	// never blocks a later valid one.
	consumed map[string]struct{}
}

func NewMachine(provider AuthProvider, whitelist Whitelist, log zerolog.Logger) *Machine {
	return &Machine{
		auth:      provider,
		whitelist: whitelist,
		log:       log,
		consumed:  make(map[string]struct{}),
	}
}

// Bootstrap inspects the URL fragment the browser arrived with and, when
// it carries an unconsumed recovery token pair, exchanges it for a
// recovery session. Bootstrap is idempotent: replaying the same fragment
// after the tokens were consumed changes nothing.
func (m *Machine) Bootstrap(ctx context.Context, fragment url.Values) error {
	if fragment.Get("type") != "recovery" {
		return nil
	}

	accessToken := fragment.Get("access_token")
	refreshToken := fragment.Get("refresh_token")
	if accessToken == "" || refreshToken == "" {
		return ErrMalformedRecoveryLink
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, done := m.consumed[accessToken]; done {
		return nil
	}

	session, err := m.auth.EstablishSession(ctx, accessToken, refreshToken)
	if err != nil {
		return err
	}

	m.consumed[accessToken] = struct{}{}
	m.handleEvent(ctx, auth.Event{Type: auth.EventPasswordRecovery, Session: session})
	return nil
}

// SignIn authenticates and applies the resulting session to this machine.
func (m *Machine) SignIn(ctx context.Context, email, password string) error {
	session, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handleEvent(ctx, auth.Event{Type: auth.EventSignedIn, Session: session})
	return nil
}

// SignUp registers a new account. When confirmation is required no
// session comes back and the machine stays put until the user confirms
// and signs in.
func (m *Machine) SignUp(ctx context.Context, email, password string) error {
	session, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handleEvent(ctx, auth.Event{Type: auth.EventSignedIn, Session: session})
	return nil
}

// ConfirmEmail consumes a confirmation-link token. It does not sign the
// user in; they authenticate normally afterwards.
func (m *Machine) ConfirmEmail(ctx context.Context, token string) error {
	return m.auth.ConfirmEmail(ctx, token)
}

// RequestPasswordReset asks for a recovery link. The machine's state is
// untouched; the link lands in the mailbox, not here.
func (m *Machine) RequestPasswordReset(ctx context.Context, email string) error {
	return m.auth.RequestPasswordReset(ctx, email)
}

// Refresh exchanges the current refresh token for a fresh pair.
func (m *Machine) Refresh(ctx context.Context, refreshToken string) error {
	session, err := m.auth.Refresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handleEvent(ctx, auth.Event{Type: auth.EventTokenRefreshed, Session: session})
	return nil
}

// UpdatePassword changes the password for the signed-in user. On success
// the recovery flag clears and the machine carries the fresh session; a
// recovery session graduates to a regular one.
func (m *Machine) UpdatePassword(ctx context.Context, password string) error {
	m.mu.Lock()
	if m.session == nil || m.session.User == nil {
		m.mu.Unlock()
		return errors.New("no active session")
	}
	userID := m.session.User.ID
	m.mu.Unlock()

	session, err := m.auth.UpdatePassword(ctx, userID, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if session != nil {
		m.handleEvent(ctx, auth.Event{Type: auth.EventSignedIn, Session: session})
		return nil
	}
	// Password changed but no fresh pair came back. The recovery window
	// is over either way.
	m.recovery = false
	if m.session != nil {
		m.session.Recovery = false
		m.resolveWhitelist(ctx, m.session)
	}
	return nil
}

// SignOut drops the session. Tokens are stateless, so forgetting them is
// the whole operation.
func (m *Machine) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handleEvent(ctx, auth.Event{Type: auth.EventSignedOut})
	return nil
}

// Snapshot reads the machine without mutating it.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		State:              m.stateLocked(),
		Session:            m.session,
		IsPasswordRecovery: m.recovery,
	}
}

// handleEvent is the single funnel every auth outcome passes through.
// Callers hold m.mu.
func (m *Machine) handleEvent(ctx context.Context, e auth.Event) {
	switch e.Type {
	case auth.EventSignedIn:
		m.session = e.Session
		m.recovery = false
		m.membership = nil
		m.resolveWhitelist(ctx, e.Session)
	case auth.EventPasswordRecovery:
		m.session = e.Session
		m.recovery = true
		m.membership = nil
		m.resolveWhitelist(ctx, e.Session)
	case auth.EventTokenRefreshed:
		// Same user, new tokens. Membership carries over.
		if m.session != nil && e.Session != nil {
			e.Session.Recovery = m.session.Recovery
		}
		m.session = e.Session
	case auth.EventSignedOut:
		m.session = nil
		m.recovery = false
		m.membership = nil
	}
}

// resolveWhitelist is the one place membership gets decided. Callers
// hold m.mu.
func (m *Machine) resolveWhitelist(ctx context.Context, session *auth.Session) {
	if session == nil || session.User == nil {
		return
	}
	userID := session.User.ID

	// Seeding is best-effort: a pre-approved address gets linked to its
	// user row on first contact, and a failure just means the membership
	// check answers on the current rows.
	m.whitelist.EnsureByEmail(ctx, userID, session.User.Email)

	allowed, err := m.whitelist.IsWhitelisted(ctx, userID)
	if err != nil {
		m.log.Error().Err(err).Str("user_id", userID).Msg("whitelist check failed")
		allowed = false
	}

	// The session may have changed while the check ran.
	if m.session == nil || m.session.User == nil || m.session.User.ID != userID {
		return
	}
	m.membership = &allowed
}

func (m *Machine) stateLocked() State {
	if m.session == nil {
		return StateUnauthenticated
	}
	if m.recovery {
		return StatePasswordRecovery
	}
	if m.membership == nil {
		return StateAuthenticatedUnverified
	}
	if *m.membership {
		return StateAuthenticatedWhitelisted
	}
	return StateAuthenticatedNotWhitelisted
}
