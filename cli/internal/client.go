package cli

import (
	"fmt"
	"os"

	"github.com/folionote/folio/internal/client"
)

// NewAPIClient creates the shared API client with durable credentials
// and automatic token refresh.
func NewAPIClient(config *Config) (*client.Client, error) {
	serverURL, err := config.ServerURL()
	if err != nil {
		return nil, fmt.Errorf("failed to get server URL: %w", err)
	}

	tokens := NewStoredCredentials()
	if tokens.AccessToken() == "" {
		return nil, fmt.Errorf("not logged in")
	}

	apiClient, err := client.New(serverURL,
		client.WithTimeout(config.Timeout()),
		client.WithTokenManager(tokens),
		client.WithUnauthenticatedFunc(func() {
			fmt.Fprintln(os.Stderr, "Your session has expired. Please run 'folio auth login' to re-authenticate.")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return apiClient, nil
}

// NewUnauthenticatedClient creates a client without stored credentials
// (for login and config commands).
func NewUnauthenticatedClient(config *Config) (*client.Client, error) {
	serverURL, err := config.ServerURL()
	if err != nil {
		return nil, fmt.Errorf("failed to get server URL: %w", err)
	}

	apiClient, err := client.New(serverURL, client.WithTimeout(config.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return apiClient, nil
}
