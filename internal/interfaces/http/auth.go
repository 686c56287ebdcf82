package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"skarbonka/internal/domain/auth"
	"skarbonka/internal/domain/session"
	"skarbonka/internal/domain/user"
)

const sidCookieName = "sid"

type AuthHandler struct {
	store         *session.Store
	secureCookies bool
	log           zerolog.Logger
}

func NewAuthHandler(store *session.Store, secureCookies bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{store: store, secureCookies: secureCookies, log: log}
}

// Request/Response DTOs

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type ConfirmEmailRequest struct {
	Token string `json:"token"`
}

type RecoveryRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UpdatePasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SessionResponse struct {
	State              session.State `json:"state"`
	User               *UserResponse `json:"user,omitempty"`
	IsPasswordRecovery bool          `json:"isPasswordRecovery"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func toSessionResponse(snap session.Snapshot) SessionResponse {
	resp := SessionResponse{State: snap.State, IsPasswordRecovery: snap.IsPasswordRecovery}
	if snap.Session != nil && snap.Session.User != nil {
		resp.User = &UserResponse{ID: snap.Session.User.ID, Email: snap.Session.User.Email}
	}
	return resp
}

// machine resolves the browser session from the sid cookie, minting a
// new one when needed, and returns the sid it lives under.
func (h *AuthHandler) machine(w http.ResponseWriter, r *http.Request) (string, *session.Machine) {
	var sid string
	if cookie, err := r.Cookie(sidCookieName); err == nil {
		sid = cookie.Value
	}

	newSid, m := h.store.GetOrCreate(sid)
	if newSid != sid {
		http.SetCookie(w, &http.Cookie{
			Name:     sidCookieName,
			Value:    newSid,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return newSid, m
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, snap session.Snapshot) {
	if snap.Session == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    snap.Session.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    snap.Session.RefreshToken,
		Path:     "/api/auth",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "", Path: "/api/auth", MaxAge: -1, HttpOnly: true})
}

// HandleSession reports the current session state, the SPA's bootstrap
// call.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, m := h.machine(w, r)
	writeJSON(w, http.StatusOK, toSessionResponse(m.Snapshot()))
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Password != req.ConfirmPassword {
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
		return
	}

	_, m := h.machine(w, r)
	if err := m.SignUp(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			http.Error(w, "Email address is already registered", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// When confirmation is pending the snapshot has no session and no
	// cookies get written.
	snap := m.Snapshot()
	h.setTokenCookies(w, snap)
	writeJSON(w, http.StatusCreated, toSessionResponse(snap))
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	_, m := h.machine(w, r)
	if err := m.SignIn(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, auth.ErrEmailNotConfirmed) {
			http.Error(w, "Email address has not been confirmed yet", http.StatusForbidden)
			return
		}
		h.log.Error().Err(err).Msg("sign in failed")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	snap := m.Snapshot()
	h.setTokenCookies(w, snap)
	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sid, m := h.machine(w, r)
	m.SignOut(r.Context())
	h.store.Remove(sid)

	http.SetCookie(w, &http.Cookie{Name: sidCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	h.clearTokenCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleConfirm consumes the token from a sign-up confirmation link and
// marks the address confirmed.
func (h *AuthHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ConfirmEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "Confirmation token is required", http.StatusBadRequest)
		return
	}

	_, m := h.machine(w, r)
	if err := m.ConfirmEmail(r.Context(), req.Token); err != nil {
		if errors.Is(err, auth.ErrInvalidConfirmation) {
			http.Error(w, "Confirmation link is invalid or has expired", http.StatusUnauthorized)
			return
		}
		h.log.Error().Err(err).Msg("email confirmation failed")
		http.Error(w, "Failed to confirm email", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var refreshToken string
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		refreshToken = cookie.Value
	} else {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}
	if refreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	_, m := h.machine(w, r)
	if err := m.Refresh(r.Context(), refreshToken); err != nil {
		http.Error(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	snap := m.Snapshot()
	h.setTokenCookies(w, snap)
	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

// HandleResetPassword mails a recovery link. The response is the same
// whether or not the address is registered.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	_, m := h.machine(w, r)
	if err := m.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.log.Error().Err(err).Msg("password reset request failed")
		http.Error(w, "Failed to request password reset", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// HandleRecovery consumes the token pair from a password-reset link and
// opens a recovery session.
func (h *AuthHandler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RecoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	fragment := url.Values{}
	fragment.Set("access_token", req.AccessToken)
	fragment.Set("refresh_token", req.RefreshToken)
	fragment.Set("type", "recovery")

	_, m := h.machine(w, r)
	if err := m.Bootstrap(r.Context(), fragment); err != nil {
		http.Error(w, "Recovery link is invalid or has expired", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(m.Snapshot()))
}

func (h *AuthHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Password != req.ConfirmPassword {
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
		return
	}

	_, m := h.machine(w, r)
	if err := m.UpdatePassword(r.Context(), req.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := m.Snapshot()
	h.setTokenCookies(w, snap)
	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
