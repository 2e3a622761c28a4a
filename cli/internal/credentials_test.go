package cli

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

func TestExtractJWTExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	})

	got, err := extractJWTExpiry(token)
	if err != nil {
		t.Fatalf("extractJWTExpiry returned error: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}
}

func TestExtractJWTExpiry_MissingClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "1"})

	if _, err := extractJWTExpiry(token); err == nil {
		t.Error("expected error for token without exp claim")
	}
}

func TestExtractJWTExpiry_NotAJWT(t *testing.T) {
	if _, err := extractJWTExpiry("opaque-session-token"); err == nil {
		t.Error("expected error for non-JWT token")
	}
}

func TestCredentialsIsExpired(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"zero expiry never expires", Credentials{AccessToken: "x"}, false},
		{"future expiry", Credentials{ExpiresAt: time.Now().Add(time.Hour)}, false},
		{"past expiry", Credentials{ExpiresAt: time.Now().Add(-time.Hour)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
