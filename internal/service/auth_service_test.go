package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
)

func newAuthFixture(t *testing.T) (*fakeStudentRepo, AuthService) {
	t.Helper()
	repo := newFakeStudentRepo()
	svc := NewAuthService(repo, AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Minute,
	}, zerolog.Nop())
	return repo, svc
}

func TestRegisterAndLogin(t *testing.T) {
	repo, svc := newAuthFixture(t)

	err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		Name:     "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	student := repo.students["student@example.com"]
	if student == nil {
		t.Fatal("student not persisted")
	}
	if student.PasswordHash == "secret123" {
		t.Error("password stored in plaintext")
	}
	if len(student.StudentNumber) != 8 {
		t.Errorf("student number = %q, want 8 chars", student.StudentNumber)
	}

	resp, err := svc.Login(context.Background(), "student@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token type = %q, want bearer", resp.TokenType)
	}

	email, err := svc.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if email != "student@example.com" {
		t.Errorf("token subject = %q", email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)
	req := &models.RegisterRequest{Email: "student@example.com", Password: "secret123"}

	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := svc.Register(context.Background(), req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, svc := newAuthFixture(t)

	if err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "student@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestParseTokenRejectsForgedToken(t *testing.T) {
	_, svc := newAuthFixture(t)

	if _, err := svc.ParseToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}

	other := NewAuthService(newFakeStudentRepo(), AuthConfig{
		JWTSecret: "different-secret",
		TokenTTL:  time.Minute,
	}, zerolog.Nop())

	if err := other.Register(context.Background(), &models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	resp, err := other.Login(context.Background(), "student@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.ParseToken(resp.AccessToken); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}
