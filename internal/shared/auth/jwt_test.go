package auth

import (
	"strings"
	"testing"
	"time"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	j := NewJWT("my-secret-key")

	userID := "f3b2c9e0-0000-0000-0000-000000000001"
	email := "test@example.com"

	token, err := j.Generate(userID, email, TokenAccess, AccessTokenTTL)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := j.Validate(token)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Validate() got UserID %s, want %s", claims.UserID, userID)
	}
	if claims.Email != email {
		t.Errorf("Validate() got Email %s, want %s", claims.Email, email)
	}
	if claims.Typ != TokenAccess {
		t.Errorf("Validate() got Typ %s, want %s", claims.Typ, TokenAccess)
	}
}

func TestJWT_TamperedTokenRejected(t *testing.T) {
	j := NewJWT("my-secret-key")

	token, _ := j.Generate("user-1", "a@b.pl", TokenAccess, AccessTokenTTL)
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "forged-signature"

	if _, err := j.Validate(tampered); err == nil {
		t.Error("Validate() accepted a tampered token")
	}
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	token, _ := NewJWT("secret-a").Generate("user-1", "a@b.pl", TokenAccess, AccessTokenTTL)

	if _, err := NewJWT("secret-b").Validate(token); err == nil {
		t.Error("Validate() accepted a token signed with a different secret")
	}
}

func TestJWT_ExpiredTokenRejected(t *testing.T) {
	j := NewJWT("my-secret-key")

	token, _ := j.Generate("user-1", "a@b.pl", TokenAccess, -time.Minute)

	if _, err := j.Validate(token); err == nil {
		t.Error("Validate() accepted an expired token")
	}
}

func TestJWT_ValidateTyped(t *testing.T) {
	j := NewJWT("my-secret-key")

	recovery, _ := j.Generate("user-1", "a@b.pl", TokenRecovery, RecoveryTokenTTL)

	if _, err := j.ValidateTyped(recovery, TokenRecovery); err != nil {
		t.Errorf("ValidateTyped(recovery) failed: %v", err)
	}
	if _, err := j.ValidateTyped(recovery, TokenAccess); err == nil {
		t.Error("ValidateTyped() accepted a recovery token as an access token")
	}
}

func TestJWT_GeneratePair(t *testing.T) {
	j := NewJWT("my-secret-key")

	pair, err := j.GeneratePair("user-1", "a@b.pl")
	if err != nil {
		t.Fatalf("GeneratePair() failed: %v", err)
	}

	access, err := j.ValidateTyped(pair.AccessToken, TokenAccess)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	refresh, err := j.ValidateTyped(pair.RefreshToken, TokenRefresh)
	if err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
	if refresh.Exp <= access.Exp {
		t.Error("refresh token should outlive the access token")
	}
}

func TestJWT_GenerateRecoveryPair(t *testing.T) {
	j := NewJWT("my-secret-key")

	pair, err := j.GenerateRecoveryPair("user-1", "a@b.pl")
	if err != nil {
		t.Fatalf("GenerateRecoveryPair() failed: %v", err)
	}
	if _, err := j.ValidateTyped(pair.AccessToken, TokenRecovery); err != nil {
		t.Errorf("recovery access token invalid: %v", err)
	}
	if _, err := j.ValidateTyped(pair.RefreshToken, TokenRecovery); err != nil {
		t.Errorf("recovery refresh token invalid: %v", err)
	}
}
