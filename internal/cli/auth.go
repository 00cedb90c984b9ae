package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nstepanov/passvault/internal/api"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new vault account",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		username, err := promptLine("Username: ")
		if err != nil {
			return err
		}
		email, err := promptLine("Email: ")
		if err != nil {
			return err
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		identity, err := client.Register(cmd.Context(), username, email, password)
		if err != nil {
			return err
		}
		if err := client.SaveSession(opts.SessionFile); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Printf("Registered and logged in as %s\n", identity.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the vault server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		email, err := promptLine("Email: ")
		if err != nil {
			return err
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		identity, err := client.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if err := client.SaveSession(opts.SessionFile); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Printf("Logged in as %s\n", identity.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		// Best effort server-side, the local session is removed regardless.
		if err := client.Logout(cmd.Context()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", err)
		}
		if err := api.ClearSession(opts.SessionFile); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
