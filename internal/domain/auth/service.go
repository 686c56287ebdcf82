package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"skarbonka/internal/domain/user"
	sharedauth "skarbonka/internal/shared/auth"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailNotConfirmed   = errors.New("email address has not been confirmed yet")
	ErrInvalidRecovery     = errors.New("recovery link is invalid or has expired")
	ErrInvalidConfirmation = errors.New("confirmation link is invalid or has expired")
)

// Session is the credential state handed to callers after a successful
// auth operation.
type Session struct {
	User         *user.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	// Recovery marks a session established from a password-reset link.
	Recovery bool `json:"recovery"`
}

// Mailer delivers the recovery and confirmation links. Production
// transport is out of scope here; the dev implementation logs the URL.
type Mailer interface {
	SendRecoveryLink(ctx context.Context, email, link string) error
	SendConfirmationLink(ctx context.Context, email, link string) error
}

// LogMailer writes links to the log instead of sending mail.
type LogMailer struct {
	Log zerolog.Logger
}

func (m LogMailer) SendRecoveryLink(ctx context.Context, email, link string) error {
	m.Log.Info().Str("email", email).Str("link", link).Msg("password recovery link")
	return nil
}

func (m LogMailer) SendConfirmationLink(ctx context.Context, email, link string) error {
	m.Log.Info().Str("email", email).Str("link", link).Msg("email confirmation link")
	return nil
}

// Config controls sign-up, confirmation, and recovery behavior.
type Config struct {
	// RequireConfirmation makes SignUp withhold the session until the
	// e-mail address is confirmed, mirroring hosted auth services that
	// send a confirmation round-trip first.
	RequireConfirmation bool
	// ResetRedirectURL is the page the recovery link points at; the token
	// pair rides in the URL fragment.
	ResetRedirectURL string
	// ConfirmRedirectURL is the page the confirmation link points at; the
	// confirm token rides in the query string.
	ConfirmRedirectURL string
}

// Service owns credentials and session tokens: the auth collaborator the
// session machines talk to. It is stateless; each operation returns the
// resulting session (or nil) and the calling machine applies it to its
// own state.
type Service struct {
	users  user.Repository
	jwt    *sharedauth.JWT
	mailer Mailer
	cfg    Config
	log    zerolog.Logger
}

func NewService(users user.Repository, jwt *sharedauth.JWT, mailer Mailer, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		users:  users,
		jwt:    jwt,
		mailer: mailer,
		cfg:    cfg,
		log:    log,
	}
}

// SignIn verifies credentials and mints a normal session pair.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := sharedauth.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if s.cfg.RequireConfirmation && !u.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}

	pair, err := s.jwt.GeneratePair(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to mint session tokens: %w", err)
	}

	return &Session{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// SignUp provisions a new credential. When confirmation is required, the
// confirmation link is mailed, the returned session is nil, and no
// session exists until ConfirmEmail succeeds; callers must handle both
// outcomes without erroring.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email address is required")
	}

	hash, err := sharedauth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, user.CreateUserParams{
		Email:          email,
		PasswordHash:   hash,
		EmailConfirmed: !s.cfg.RequireConfirmation,
	})
	if err != nil {
		return nil, err
	}

	if s.cfg.RequireConfirmation {
		if err := s.sendConfirmationLink(ctx, u); err != nil {
			return nil, err
		}
		s.log.Info().Str("email", email).Msg("account created, awaiting email confirmation")
		return nil, nil
	}

	pair, err := s.jwt.GeneratePair(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to mint session tokens: %w", err)
	}

	return &Session{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *Service) sendConfirmationLink(ctx context.Context, u *user.User) error {
	token, err := s.jwt.Generate(u.ID, u.Email, sharedauth.TokenConfirm, sharedauth.ConfirmTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to mint confirmation token: %w", err)
	}

	query := url.Values{}
	query.Set("token", token)
	link := s.cfg.ConfirmRedirectURL + "?" + query.Encode()

	return s.mailer.SendConfirmationLink(ctx, u.Email, link)
}

// ConfirmEmail consumes a confirmation token from a sign-up link and
// marks the address confirmed. The user still signs in normally after.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateTyped(token, sharedauth.TokenConfirm)
	if err != nil {
		return ErrInvalidConfirmation
	}
	if err := s.users.ConfirmEmail(ctx, claims.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrInvalidConfirmation
		}
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return nil
}

// RequestPasswordReset mails a recovery link carrying a short-lived token
// pair in the URL fragment. Unknown addresses are not revealed to the
// caller; the request quietly succeeds.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.log.Info().Str("email", email).Msg("password reset requested for unknown address")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	pair, err := s.jwt.GenerateRecoveryPair(u.ID, u.Email)
	if err != nil {
		return fmt.Errorf("failed to mint recovery tokens: %w", err)
	}

	fragment := url.Values{}
	fragment.Set("access_token", pair.AccessToken)
	fragment.Set("refresh_token", pair.RefreshToken)
	fragment.Set("type", "recovery")
	link := s.cfg.ResetRedirectURL + "#" + fragment.Encode()

	return s.mailer.SendRecoveryLink(ctx, u.Email, link)
}

// EstablishSession consumes a recovery token pair from a reset link and
// returns the recovery-flagged session.
func (s *Service) EstablishSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	claims, err := s.jwt.ValidateTyped(accessToken, sharedauth.TokenRecovery)
	if err != nil {
		return nil, ErrInvalidRecovery
	}
	if _, err := s.jwt.ValidateTyped(refreshToken, sharedauth.TokenRecovery); err != nil {
		return nil, ErrInvalidRecovery
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidRecovery
	}

	return &Session{User: u, AccessToken: accessToken, RefreshToken: refreshToken, Recovery: true}, nil
}

// Refresh exchanges a refresh token for a fresh session pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.jwt.ValidateTyped(refreshToken, sharedauth.TokenRefresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	pair, err := s.jwt.GeneratePair(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to mint session tokens: %w", err)
	}

	return &Session{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// UpdatePassword replaces the user's password after policy validation.
// On success a fresh normal session pair is returned, so a recovery
// session graduates to a regular one. A nil session with a nil error
// means the password changed but no pair could be minted; the next
// sign-in picks the new password up.
func (s *Service) UpdatePassword(ctx context.Context, userID, password string) (*Session, error) {
	hash, err := sharedauth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("could not reload user after password update")
		return nil, nil
	}
	pair, err := s.jwt.GeneratePair(u.ID, u.Email)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("could not mint session after password update")
		return nil, nil
	}

	return &Session{User: u, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
