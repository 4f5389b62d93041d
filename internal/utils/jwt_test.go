package utils

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken("test-issuer", 123, time.Hour, "secret-key")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Subject != "123" {
		t.Errorf("expected subject '123', got %s", token.Subject)
	}
	if token.UserID != 123 {
		t.Errorf("expected UserID 123, got %d", token.UserID)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", time.Hour, "key"},
		{"zero duration", "iss", 0, "key"},
		{"negative duration", "iss", -time.Minute, "key"},
		{"empty key", "iss", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, 1, tt.duration, tt.key)
			if !errors.Is(err, ErrInvalidTokenParams) {
				t.Errorf("expected ErrInvalidTokenParams, got %v", err)
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	token, _ := GenerateJWTToken("iss", 77, time.Hour, "key")

	parsed, err := ValidateAndParseJWTToken(token.SignedString, "key", "iss")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if parsed.UserID != 77 {
		t.Errorf("expected UserID 77, got %d", parsed.UserID)
	}
	if parsed.String() != token.SignedString {
		t.Error("expected signed string to be preserved")
	}
}

func TestValidateAndParseJWTToken_Failures(t *testing.T) {
	valid, _ := GenerateJWTToken("iss", 1, time.Hour, "key")
	expired, _ := GenerateJWTToken("iss", 1, time.Nanosecond, "key")
	time.Sleep(2 * time.Millisecond)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{"wrong key", valid.SignedString, "other", "iss"},
		{"wrong issuer", valid.SignedString, "key", "other"},
		{"expired", expired.SignedString, "key", "iss"},
		{"malformed", "not-a-token", "key", "iss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateAndParseJWTToken(tt.token, tt.key, tt.issuer); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer abc", "abc", false},
		{"  Bearer   abc  ", "abc", false},
		{"Basic abc", "", true},
		{"Bearer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("header %q: unexpected error state %v", tt.header, err)
		}
		if got != tt.want {
			t.Errorf("header %q: expected %q, got %q", tt.header, tt.want, got)
		}
	}
}

func TestParseSessionFromJWT(t *testing.T) {
	token, _ := GenerateJWTToken("iss", 9, time.Hour, "key")

	session, err := ParseSessionFromJWT(token.SignedString, "alice")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if session.UserID != 9 || session.Login != "alice" || session.Token != token.SignedString {
		t.Errorf("unexpected session: %+v", session)
	}
	if !session.Valid(time.Now()) {
		t.Error("expected fresh session to be valid")
	}
	if session.Valid(time.Now().Add(2 * time.Hour)) {
		t.Error("expected session to expire")
	}

	if _, err := ParseSessionFromJWT("garbage", "alice"); !errors.Is(err, ErrInvalidTokenClaims) {
		t.Errorf("expected ErrInvalidTokenClaims, got %v", err)
	}
}
