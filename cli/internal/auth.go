package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
		Long:  `Manage authentication for the folio CLI`,
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthLogoutCommand())
	cmd.AddCommand(newAuthStatusCommand())
	cmd.AddCommand(newAuthWhoamiCommand())

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the folio server",
		Long: `Authenticate with the folio server using email and password.

Examples:
  # Login, prompting for credentials
  folio auth login

  # Login with email, prompting for password
  folio auth login --email user@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			var err error
			if email == "" || password == "" {
				email, password, err = promptCredentials(email)
				if err != nil {
					return err
				}
			}

			tokens, err := ctx.Client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			creds := &Credentials{
				AccessToken:  tokens.AccessToken,
				RefreshToken: tokens.RefreshToken,
			}
			if tokens.User != nil {
				creds.Email = tokens.User.Email
				creds.UserID = tokens.User.ID
			}
			if expiry, decodeErr := extractJWTExpiry(tokens.AccessToken); decodeErr == nil {
				creds.ExpiresAt = expiry
			}

			if err := SaveCredentials(creds); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			fmt.Printf("✓ Successfully logged in as %s\n", creds.Email)
			if !creds.ExpiresAt.IsZero() {
				fmt.Printf("  Token expires: %s\n", creds.ExpiresAt.Format("2006-01-02 15:04:05"))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email for authentication (if not provided, will prompt)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password for authentication (if not provided, will prompt)")

	return cmd
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and remove stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			// Best-effort server-side invalidation; local credentials are
			// cleared even when the call fails.
			creds, err := LoadCredentials()
			if err == nil && creds.AccessToken != "" {
				ctx.Client.SetAuthToken(creds.AccessToken)
				if logoutErr := ctx.Client.Logout(cmd.Context()); logoutErr != nil {
					ctx.Logger.Debug("server-side logout failed", "error", logoutErr.Error())
				}
			}

			if err := RemoveCredentials(); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}

			fmt.Println("✓ Logged out")
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := LoadCredentials()
			if err != nil {
				fmt.Println("Not logged in")
				return nil
			}

			fmt.Printf("Logged in as: %s\n", creds.Email)
			if creds.ExpiresAt.IsZero() {
				return nil
			}

			if creds.IsExpired() {
				fmt.Printf("Access token expired %s ago (will refresh on next request)\n",
					time.Since(creds.ExpiresAt).Round(time.Second))
			} else {
				fmt.Printf("Access token expires in %s\n",
					time.Until(creds.ExpiresAt).Round(time.Second))
			}
			return nil
		},
	}
}

func newAuthWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Fetch the current user profile from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			apiClient, err := NewAPIClient(ctx.Config)
			if err != nil {
				return fmt.Errorf("authentication required: %w\nPlease run 'folio auth login' first", err)
			}

			user, err := apiClient.ValidateSession(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("%s <%s>\n", user.Name, user.Email)
			fmt.Printf("  Role: %s\n", user.Role)
			if user.GithubUsername != "" {
				fmt.Printf("  GitHub: %s\n", user.GithubUsername)
			}
			return nil
		},
	}
}

// promptCredentials asks for email and password on the terminal. The
// password is read without echo.
func promptCredentials(email string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}

	return email, string(passwordBytes), nil
}
