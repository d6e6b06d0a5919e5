package token

import (
	"testing"
	"time"
)

var secret = []byte("test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := GenerateAccessToken(42, secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := VerifyToken(tok, secret)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	id, err := UserID(claims)
	if err != nil || id != 42 {
		t.Fatalf("UserID = %d, %v, want 42", id, err)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	expired, err := GenerateAccessToken(1, secret, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	other, err := GenerateAccessToken(1, []byte("other"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	for name, tok := range map[string]string{
		"expired":   expired,
		"wrong key": other,
		"garbage":   "not.a.token",
		"empty":     "",
	} {
		if _, err := VerifyToken(tok, secret); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestUserIDRejectsNonNumeric(t *testing.T) {
	tok, err := GenerateAccessToken(0, secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := VerifyToken(tok, secret)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UserID(claims); err == nil {
		t.Fatal("user id 0 should be rejected")
	}
}
