// Package cli implements the vault client command line interface.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nstepanov/passvault/internal/api"
	"github.com/nstepanov/passvault/internal/config"
	"github.com/nstepanov/passvault/internal/logger"
)

var opts = config.Default()

var rootCmd = &cobra.Command{
	Use:   "passvault",
	Short: "A password vault client",
	Long: `Passvault is a command-line client for the vault API. It keeps a
login session on disk and opens an interactive dashboard for browsing,
revealing, editing, and deleting stored account passwords.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		opts.Load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDash(cmd)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.ServerURL, "server", "s", opts.ServerURL, "base URL of the vault server")
	rootCmd.PersistentFlags().StringVar(&opts.SessionFile, "session-file", opts.SessionFile, "path to the persisted session file")
	rootCmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "path to a JSON config file")
}

// newClient builds an API client with the persisted session loaded, if any.
func newClient() (*api.Client, *zap.Logger, error) {
	log := logger.New()
	if err := log.Init("Error"); err != nil {
		return nil, nil, err
	}
	client, err := api.NewClient(opts.ServerURL, log.Log)
	if err != nil {
		return nil, nil, err
	}
	if err := client.LoadSession(opts.SessionFile); err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	return client, log.Log, nil
}

// promptLine reads a single line from stdin with the given prompt.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it to the terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
