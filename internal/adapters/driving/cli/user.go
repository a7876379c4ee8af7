package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Add a new user",
	Long: `Add a user to the local library.

The password is read from a hidden prompt and stored as a hash. It is
an identity marker for multi-user libraries, not an authentication
system.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE:  runUserList,
}

// userAddEmail is the optional contact address for user add.
var userAddEmail string

func init() {
	userAddCmd.Flags().StringVarP(
		&userAddEmail, "email", "e", "", "Contact email address")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	if userStore == nil {
		return errors.New("user store not configured")
	}

	username := args[0]
	if username == "" {
		return fmt.Errorf("%w: username must not be empty", domain.ErrInvalidInput)
	}

	cmd.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	cmd.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}

	sum := sha256.Sum256(password)
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        userAddEmail,
		PasswordHash: hex.EncodeToString(sum[:]),
		CreatedAt:    time.Now(),
	}

	if err := userStore.SaveUser(cmd.Context(), user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("username %q is taken: %w", username, err)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	cmd.Printf("User %q created (%s).\n", username, user.ID)
	return nil
}

func runUserList(cmd *cobra.Command, _ []string) error {
	if userStore == nil {
		return errors.New("user store not configured")
	}

	users, err := userStore.ListUsers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		cmd.Println("No users yet. Create one with: ainki user add [username]")
		return nil
	}

	for i := range users {
		cmd.Printf("  %s  %s", users[i].ID, users[i].Username)
		if users[i].Email != "" {
			cmd.Printf("  <%s>", users[i].Email)
		}
		cmd.Println()
	}
	return nil
}
