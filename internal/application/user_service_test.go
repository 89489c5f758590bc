package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillboost/skillboost-api/pkg/helpers"
)

func newUserService() (*UserService, *memUsers) {
	users := newMemUsers()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewUserService(users, jwt, nil, testLogger()), users
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	in := RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123", Role: "student"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	in.Username = "alice2"
	if _, err := svc.Register(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("second register: %v, want ErrEmailTaken", err)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123", Role: "student"})
	if err != nil {
		t.Fatal(err)
	}
	stored, err := users.GetByID(ctx, u.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if stored.Password == "secret123" {
		t.Fatal("password stored in plain text")
	}
	if !helpers.CompareHashAndPassword(stored.Password, "secret123") {
		t.Error("stored hash does not verify")
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret123", Role: "instructor"})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret123"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown email: %v, want ErrUserNotFound", err)
	}
	if _, _, err := svc.Login(ctx, "bob@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v, want ErrInvalidCredentials", err)
	}

	u, token, err := svc.Login(ctx, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != reg.ID {
		t.Errorf("user = %s, want %s", u.ID.Hex(), reg.ID.Hex())
	}

	claims, err := svc.JWT.Parse(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != reg.ID.Hex() || claims.Role != "instructor" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "carol", Email: "carol@example.com", Password: "secret123", Role: "student"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateProfile(ctx, u.ID.Hex(), UpdateProfileInput{Description: "learning Go"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Username != "carol" {
		t.Errorf("username changed to %q", got.Username)
	}
	if got.Description != "learning Go" {
		t.Errorf("description = %q", got.Description)
	}

	if _, err := svc.UpdateProfile(ctx, "ffffffffffffffffffffffff", UpdateProfileInput{Username: "x"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: %v, want ErrUserNotFound", err)
	}
}
