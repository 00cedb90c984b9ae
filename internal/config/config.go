// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables, and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Options holds the configuration values for both the vault server and the
// dashboard client.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string

	// DatabaseDSN holds the Postgres connection string for the server.
	DatabaseDSN string

	// ServerURL is the base URL the client talks to.
	ServerURL string

	// SessionFile is where the client persists its session cookies.
	SessionFile string

	// SecretKey and SecretKey2 are the independent secrets used for
	// double encryption of stored account passwords.
	SecretKey  string
	SecretKey2 string

	// SessionTTLHours is how long issued sessions stay valid.
	SessionTTLHours int

	// MaxLoginAttempts, LoginWindowMinutes, and LockDurationMinutes tune
	// the failed-login lockout.
	MaxLoginAttempts    int
	LoginWindowMinutes  int
	LockDurationMinutes int

	// Config is the path to the config file.
	Config string
}

// Default returns the baseline configuration before any overrides.
func Default() *Options {
	return &Options{
		Address:             "localhost:8080",
		ServerURL:           "http://localhost:8080",
		SessionFile:         defaultSessionFile(),
		SecretKey:           "MY_SUPER_SECRET_KEY",
		SecretKey2:          "MY_SECOND_SECRET",
		SessionTTLHours:     24,
		MaxLoginAttempts:    5,
		LoginWindowMinutes:  15,
		LockDurationMinutes: 15,
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".passvault-session.json"
	}
	return home + "/.passvault/session.json"
}

// Load applies the config file (if present) and environment variables on top
// of the receiver and returns it. Precedence: flags < file < env.
func (o *Options) Load() *Options {
	if path := os.Getenv("CONFIG"); path != "" {
		o.Config = path
	}

	if o.Config != "" {
		if _, err := os.Stat(o.Config); err == nil {
			data, err := os.ReadFile(o.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, o); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		o.Address = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		o.DatabaseDSN = v
	}
	if v := os.Getenv("SERVER_URL"); v != "" {
		o.ServerURL = v
	}
	if v := os.Getenv("SESSION_FILE"); v != "" {
		o.SessionFile = v
	}
	if v := os.Getenv("APP_SECRET_KEY"); v != "" {
		o.SecretKey = v
	}
	if v := os.Getenv("APP_SECRET_KEY_2"); v != "" {
		o.SecretKey2 = v
	}
	intEnv("SESSION_EXPIRES_HOURS", &o.SessionTTLHours)
	intEnv("MAX_LOGIN_ATTEMPTS", &o.MaxLoginAttempts)
	intEnv("LOGIN_WINDOW_MINUTES", &o.LoginWindowMinutes)
	intEnv("LOCK_DURATION_MINUTES", &o.LockDurationMinutes)

	return o
}

func intEnv(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", name, err)
	}
	*dst = n
}
