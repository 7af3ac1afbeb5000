package services

import (
	"testing"
	"time"
)

func newTestJWTService() *JWTService {
	return &JWTService{
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		jwtSecretKey:         "test-secret",
	}
}

func TestGenerateTokenPairIssuesBothTokens(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair("user-1", "user")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens in the pair")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	if pair.ExpiresIn != int64(svc.AccessTokenDuration.Seconds()) {
		t.Fatalf("expected expires_in %d, got %d", int64(svc.AccessTokenDuration.Seconds()), pair.ExpiresIn)
	}

	userID, role, err := svc.VerifyJWTToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("access token rejected: %v", err)
	}
	if userID != "user-1" || role != "user" {
		t.Fatalf("unexpected claims: %s %s", userID, role)
	}

	userID, role, err = svc.VerifyRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token rejected: %v", err)
	}
	if userID != "user-1" || role != "user" {
		t.Fatalf("unexpected claims: %s %s", userID, role)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair("user-2", "admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, _, err := svc.VerifyJWTToken(pair.RefreshToken); err == nil {
		t.Fatal("refresh token must not authenticate requests")
	}
	if _, _, err := svc.VerifyRefreshToken(pair.AccessToken); err == nil {
		t.Fatal("access token must not pass as a refresh token")
	}
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	svc := newTestJWTService()

	forged := newTestJWTService()
	forged.jwtSecretKey = "other-secret"
	pair, err := forged.GenerateTokenPair("user-3", "user")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, _, err := svc.VerifyJWTToken(pair.AccessToken); err == nil {
		t.Fatal("expected token signed with another key to be rejected")
	}
}
