package models

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestSignup_HashesPassword(t *testing.T) {
	u, err := Signup("testuser", "test@user.com", "password", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u.Password == "password" {
		t.Fatal("password stored as plaintext")
	}
	if !strings.HasPrefix(u.Password, "$2a$") {
		t.Errorf("expected bcrypt hash, got %q", u.Password)
	}
	if u.ID != 0 {
		t.Errorf("expected unsaved user, got id %d", u.ID)
	}
	if u.Username != "testuser" || u.Email != "test@user.com" {
		t.Errorf("unexpected identity: %+v", u)
	}
}

func TestSignup_DefaultImages(t *testing.T) {
	u, err := Signup("a", "a@a.com", "password", "")
	if err != nil {
		t.Fatal(err)
	}
	if u.ImageURL != DefaultImageURL {
		t.Errorf("expected default image, got %s", u.ImageURL)
	}
	if u.HeaderImageURL != DefaultHeaderImageURL {
		t.Errorf("expected default header image, got %s", u.HeaderImageURL)
	}

	custom := "https://example.com/me.png"
	u, err = Signup("b", "b@b.com", "password", custom)
	if err != nil {
		t.Fatal(err)
	}
	if u.ImageURL != custom {
		t.Errorf("expected %s, got %s", custom, u.ImageURL)
	}
}

func TestSignup_EmptyPassword(t *testing.T) {
	u, err := Signup("testtest", "email@email.com", "", "")
	if !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if u != nil {
		t.Errorf("expected no user, got %+v", u)
	}
}

func TestUser_CheckPassword(t *testing.T) {
	u, err := Signup("unit", "unit@test.com", "secret", "")
	if err != nil {
		t.Fatal(err)
	}
	if !u.CheckPassword("secret") {
		t.Error("expected correct password to verify")
	}
	if u.CheckPassword("incorrectpassword") {
		t.Error("expected wrong password to fail")
	}
}
