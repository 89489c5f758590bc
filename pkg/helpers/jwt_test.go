package helpers

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, exp, err := m.Generate("64f1c0ffee0000000000abcd", "a@example.com", "student")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry %v not in the future", exp)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "64f1c0ffee0000000000abcd" || claims.Email != "a@example.com" || claims.Role != "student" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTManager("secret-a", time.Hour).Generate("id", "a@example.com", "student")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWTManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, _, err := m.Generate("id", "a@example.com", "student")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestStripTokenPrefix(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"JWT abc.def.ghi", "abc.def.ghi"},
		{"abc.def.ghi", "abc.def.ghi"},
		{"Bearer   abc ", "abc"},
	}
	for _, tt := range tests {
		if got := StripTokenPrefix(tt.in); got != tt.want {
			t.Errorf("StripTokenPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
