package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zalando/go-keyring"

	"github.com/folionote/folio/internal/client"
)

const keyringService = "folio"

// Credentials stores the authentication credentials. The access and
// refresh tokens live and die together: a lone access token cannot be
// silently renewed, so Save and Clear always handle the pair.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Email        string    `json:"email,omitempty"`
	UserID       int64     `json:"user_id,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// IsExpired checks if the access token is expired
func (c *Credentials) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// NewStoredCredentials creates the durable credential manager for the
// current context. Tokens go to the OS keyring when one is available,
// with a 0600 JSON file under ~/.config/folio as the fallback.
func NewStoredCredentials() client.TokenManager {
	return &StoredCredentials{}
}

// StoredCredentials implements client.TokenManager over keyring/file storage
type StoredCredentials struct{}

// AccessToken returns the current access token, or "" when not logged in
func (s *StoredCredentials) AccessToken() string {
	creds, err := LoadCredentials()
	if err != nil {
		slog.Debug("failed to load credentials",
			slog.String("component", "cli-creds"),
			slog.String("error", err.Error()))
		return ""
	}
	return creds.AccessToken
}

// RefreshToken returns the current refresh token, or "" when not logged in
func (s *StoredCredentials) RefreshToken() string {
	creds, err := LoadCredentials()
	if err != nil {
		return ""
	}
	return creds.RefreshToken
}

// SetTokens stores the token pair, preserving the profile fields of any
// existing credentials.
func (s *StoredCredentials) SetTokens(access, refresh string) error {
	creds, err := LoadCredentials()
	if err != nil {
		creds = &Credentials{}
	}

	creds.AccessToken = access
	creds.RefreshToken = refresh

	expiresAt, decodeErr := extractJWTExpiry(access)
	if decodeErr != nil {
		slog.Debug("failed to decode access token expiry",
			slog.String("component", "cli-creds"),
			slog.String("error", decodeErr.Error()))
	} else {
		creds.ExpiresAt = expiresAt
	}

	return SaveCredentials(creds)
}

// Clear removes stored credentials
func (s *StoredCredentials) Clear() error {
	return RemoveCredentials()
}

// extractJWTExpiry reads the exp claim without verifying the signature;
// the client holds no signing key and only needs the timestamp for display.
func extractJWTExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("exp claim not found or invalid")
	}
	return exp.Time, nil
}

// keyringAccount returns the keyring account name for the current context
func keyringAccount() (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return "credentials-" + config.CurrentContext, nil
}

// credentialsPath returns the fallback file path for the current context
func credentialsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	config, err := LoadConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "folio")
	filename := fmt.Sprintf("credentials-%s.json", config.CurrentContext)
	return filepath.Join(configDir, filename), nil
}

// SaveCredentials saves credentials to the keyring, falling back to disk
func SaveCredentials(creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	account, err := keyringAccount()
	if err != nil {
		return err
	}

	if err := keyring.Set(keyringService, account, string(data)); err == nil {
		return nil
	} else {
		slog.Debug("keyring unavailable, using file storage",
			slog.String("component", "cli-creds"),
			slog.String("error", err.Error()))
	}

	path, err := credentialsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	return nil
}

// LoadCredentials loads credentials from the keyring or the fallback file
func LoadCredentials() (*Credentials, error) {
	account, err := keyringAccount()
	if err != nil {
		return nil, err
	}

	var data []byte
	if raw, err := keyring.Get(keyringService, account); err == nil {
		data = []byte(raw)
	} else {
		path, pathErr := credentialsPath()
		if pathErr != nil {
			return nil, pathErr
		}
		data, err = os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("not logged in")
			}
			return nil, fmt.Errorf("failed to read credentials: %w", err)
		}
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return &creds, nil
}

// RemoveCredentials removes credentials from both storage backends
func RemoveCredentials() error {
	account, err := keyringAccount()
	if err != nil {
		return err
	}

	if err := keyring.Delete(keyringService, account); err != nil && err != keyring.ErrNotFound {
		slog.Debug("keyring delete failed",
			slog.String("component", "cli-creds"),
			slog.String("error", err.Error()))
	}

	path, err := credentialsPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	return nil
}
