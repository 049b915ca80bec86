package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func newAuthFixture(t *testing.T, accounts *fakeAccountRepo) *AuthService {
	t.Helper()
	codec := auth.NewHMACCodec("secret", "iss", "aud")
	manager := auth.NewTokenManager(codec, "iss", "aud", time.Hour)
	return NewAuthService(accounts, manager, zap.NewNop(), testBcryptCost, time.Hour)
}

func seededAccount(t *testing.T, password string) *domain.Account {
	t.Helper()
	hashed, err := auth.HashPassword(password, testBcryptCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &domain.Account{
		ID:           1,
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		PasswordHash: hashed,
		Role:         domain.RoleUser,
	}
}

func TestLoginIssuesToken(t *testing.T) {
	account := seededAccount(t, "hunter2")
	repo := newFakeAccountRepo(account)
	svc := newAuthFixture(t, repo)

	result, err := svc.Login(context.Background(), "jdoe", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if time.Until(result.ExpiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", result.ExpiresAt)
	}
	if account.SessionToken == nil || *account.SessionToken != result.Token {
		t.Fatal("session token not stored on the account row")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeAccountRepo(seededAccount(t, "hunter2"))
	svc := newAuthFixture(t, repo)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "jdoe", "wrong"); err == nil {
		t.Fatal("wrong password must be rejected")
	}
	if _, err := svc.Login(ctx, "nobody", "hunter2"); err == nil {
		t.Fatal("unknown username must be rejected")
	}
	if _, err := svc.Login(ctx, "", ""); err == nil {
		t.Fatal("empty credentials must be rejected")
	}
}

func TestVerifyLooksUpSessionToken(t *testing.T) {
	account := seededAccount(t, "hunter2")
	repo := newFakeAccountRepo(account)
	svc := newAuthFixture(t, repo)
	ctx := context.Background()

	result, err := svc.Login(ctx, "jdoe", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	found, err := svc.Verify(ctx, result.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if found.ID != account.ID {
		t.Fatalf("wrong account: %d", found.ID)
	}

	if _, err := svc.Verify(ctx, "stale-token"); err == nil {
		t.Fatal("unknown token must be rejected")
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	account := seededAccount(t, "hunter2")
	repo := newFakeAccountRepo(account)
	svc := newAuthFixture(t, repo)
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "jdoe@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if account.ResetToken == nil || account.ResetExpiry == nil {
		t.Fatal("reset token and expiry must be stored")
	}

	if err := svc.ResetPassword(ctx, *account.ResetToken, "newpass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if account.ResetToken != nil {
		t.Fatal("reset token must be cleared after use")
	}
	if _, err := svc.Login(ctx, "jdoe", "newpass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, "jdoe", "hunter2"); err == nil {
		t.Fatal("old password must no longer work")
	}
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	account := seededAccount(t, "hunter2")
	repo := newFakeAccountRepo(account)
	svc := newAuthFixture(t, repo)
	ctx := context.Background()

	token := "expired-token"
	expiry := time.Now().Add(-time.Minute)
	account.ResetToken = &token
	account.ResetExpiry = &expiry

	if err := svc.ResetPassword(ctx, token, "newpass"); err == nil {
		t.Fatal("expired token must be rejected")
	}
	if err := svc.ResetPassword(ctx, "no-such-token", "newpass"); err == nil {
		t.Fatal("unknown token must be rejected")
	}
}

func TestChangePassword(t *testing.T) {
	account := seededAccount(t, "hunter2")
	repo := newFakeAccountRepo(account)
	svc := newAuthFixture(t, repo)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, account, "wrong", "newpass"); err == nil {
		t.Fatal("wrong current password must be rejected")
	}
	if err := svc.ChangePassword(ctx, account, "hunter2", "newpass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, "jdoe", "newpass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
