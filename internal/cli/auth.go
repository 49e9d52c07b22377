package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"tradeflow/internal/auth"
	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/store"
)

// addAuthCommands adds session management commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newLogoutCmd(app))
	rootCmd.AddCommand(newWhoamiCmd(app))
}

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <provider>",
		Short: "Log in and switch to your own journal partition",
		Long: `Log in with an identity provider (` + strings.Join(auth.Providers, ", ") + `).

While logged out, trades are journaled under a shared guest partition.
Logging in switches every command to your own partition; guest data stays
where it is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			user, err := app.Auth.Login(args[0])
			if err != nil {
				output.Error("Login failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(user)
			}
			output.Success("✓ Logged in as %s (%s)", user.Name, user.Email)
			output.Println("Your journal now uses partition: " + user.ID)
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and return to the guest journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if err := app.Auth.Logout(); err != nil {
				if apperrors.Is(err, apperrors.ErrNotLoggedIn) {
					output.Warning("Not logged in; already using the guest journal.")
					return nil
				}
				output.Error("Logout failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"user": store.GuestUserID})
			}
			output.Success("✓ Logged out. Back to the guest journal.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			user, err := app.Auth.Current()
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if user == nil {
					return output.JSON(map[string]string{"user": store.GuestUserID})
				}
				return output.JSON(user)
			}

			if user == nil {
				output.Println("Not logged in (guest journal).")
				return nil
			}
			output.Printf("%s <%s>\n", user.Name, user.Email)
			output.Println("Provider:  " + user.Provider)
			output.Println("Partition: " + user.ID)
			return nil
		},
	}
}
