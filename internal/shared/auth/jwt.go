package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TokenType distinguishes the three credentials this service mints.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
	// TokenRecovery marks a credential minted from a password-reset link.
	// It grants only the password-update flow, never normal API access.
	TokenRecovery TokenType = "recovery"
	// TokenConfirm rides in the e-mail confirmation link; it grants only
	// the confirm-address operation.
	TokenConfirm TokenType = "confirm"
)

const (
	AccessTokenTTL   = 24 * time.Hour
	RefreshTokenTTL  = 30 * 24 * time.Hour
	RecoveryTokenTTL = time.Hour
	ConfirmTokenTTL  = 48 * time.Hour
)

type JWTClaims struct {
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	Typ    TokenType `json:"typ"`
	Exp    int64     `json:"exp"`
	Iat    int64     `json:"iat"`
}

// TokenPair is the session credential pair handed to clients.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

// Generate mints a single token of the given type.
func (j *JWT) Generate(userID, email string, typ TokenType, ttl time.Duration) (string, error) {
	header := map[string]string{
		"alg": "HS256",
		"typ": "JWT",
	}

	now := time.Now()
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		Typ:    typ,
		Iat:    now.Unix(),
		Exp:    now.Add(ttl).Unix(),
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	headerB64 := base64.RawURLEncoding.EncodeToString(headerJSON)
	claimsB64 := base64.RawURLEncoding.EncodeToString(claimsJSON)

	message := headerB64 + "." + claimsB64
	signature := j.sign(message)

	return message + "." + signature, nil
}

// GeneratePair mints a normal access/refresh session pair.
func (j *JWT) GeneratePair(userID, email string) (*TokenPair, error) {
	access, err := j.Generate(userID, email, TokenAccess, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := j.Generate(userID, email, TokenRefresh, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// GenerateRecoveryPair mints the short-lived pair embedded in a password
// reset link. Both tokens carry the recovery type.
func (j *JWT) GenerateRecoveryPair(userID, email string) (*TokenPair, error) {
	access, err := j.Generate(userID, email, TokenRecovery, RecoveryTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := j.Generate(userID, email, TokenRecovery, RecoveryTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (j *JWT) Validate(token string) (*JWTClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token format")
	}

	message := parts[0] + "." + parts[1]
	signature := parts[2]

	expectedSignature := j.sign(message)
	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return nil, fmt.Errorf("invalid signature")
	}

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}

	var claims JWTClaims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	if time.Now().Unix() > claims.Exp {
		return nil, fmt.Errorf("token expired")
	}

	return &claims, nil
}

// ValidateTyped validates the token and additionally requires its type.
func (j *JWT) ValidateTyped(token string, typ TokenType) (*JWTClaims, error) {
	claims, err := j.Validate(token)
	if err != nil {
		return nil, err
	}
	if claims.Typ != typ {
		return nil, fmt.Errorf("unexpected token type %q", claims.Typ)
	}
	return claims, nil
}

func (j *JWT) sign(message string) string {
	h := hmac.New(sha256.New, j.secret)
	h.Write([]byte(message))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
