package services

import (
	"net/http"
	"testing"

	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/model"
	"github.com/munchlog-app/munchlog_api/shared"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()

	db := newTestDB(t)
	return &AuthService{
		sqlSvc: &PostgresService{db: db},
		jwtSvc: newTestJWTService(),
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "kate@example.com",
		Username: "kate",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := svc.Login(dto.LoginRequest{EmailOrUsername: "kate", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected access and refresh tokens on login")
	}
}

func TestRefreshExchangesTokenPair(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "leo@example.com",
		Username: "leo",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	login, err := svc.Login(dto.LoginRequest{EmailOrUsername: "leo", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	pair, err := svc.Refresh(dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a fresh token pair")
	}

	userID, _, err := svc.jwtSvc.VerifyJWTToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("refreshed access token rejected: %v", err)
	}
	if userID != login.UserID {
		t.Fatalf("expected user %s, got %s", login.UserID, userID)
	}

	// An access token is not a refresh token.
	_, err = svc.Refresh(dto.RefreshRequest{RefreshToken: login.AccessToken})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "mona@example.com",
		Username: "mona",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	login, err := svc.Login(dto.LoginRequest{EmailOrUsername: "mona", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.sqlSvc.Db().Where("id = ?", login.UserID).Delete(&model.User{}).Error; err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, err = svc.Refresh(dto.RefreshRequest{RefreshToken: login.RefreshToken})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
