package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/seedkeeper/internal/crypto"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: passwords are never part of the configuration; CLI commands prompt
// for them with PromptPassword.
type Config struct {
	Port       string `envconfig:"PORT" default:"8080"`
	StorageURI string `envconfig:"STORAGE_URI" default:"bolt://seedkeeper.db"`

	// AppSalt is appended to every password before encryption. Changing it
	// makes every stored seed record unreadable.
	AppSalt          string `envconfig:"APP_SALT" required:"true"`
	SeedCipherFormat string `envconfig:"SEED_CIPHER_FORMAT" default:"legacy"`
	ScryptN          int    `envconfig:"SCRYPT_N" default:"262144"`
	WalletChain      string `envconfig:"WALLET_CHAIN" default:"evm"`

	PlatformMode      string `envconfig:"PLATFORM_MODE" default:"browser"`
	PlatformAccountID string `envconfig:"PLATFORM_ACCOUNT_ID"`
	PlatformUserName  string `envconfig:"PLATFORM_USER_NAME"`

	BackendURL             string        `envconfig:"BACKEND_URL"`
	BackendTimeout         time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`
	SessionRefreshInterval time.Duration `envconfig:"SESSION_REFRESH_INTERVAL" default:"10m"`

	MinPasswordLength int `envconfig:"MIN_PASSWORD_LENGTH" default:"6"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`
}

// cfg is the global configuration instance
var cfg *Config

// Load reads configuration from environment variables without touching the
// global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.AppSalt == "" {
		return errors.New("APP_SALT must not be empty")
	}
	if c.MinPasswordLength < 1 {
		return errors.New("MIN_PASSWORD_LENGTH must be positive")
	}
	if !crypto.ValidScryptN(c.ScryptN) {
		return fmt.Errorf("SCRYPT_N must be a power of two between 2 and %d, got %d", crypto.MaxScryptN, c.ScryptN)
	}
	if c.SessionRefreshInterval <= 0 {
		return errors.New("SESSION_REFRESH_INTERVAL must be positive")
	}
	return nil
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetStorageURI returns the storage location from configuration
func GetStorageURI() string {
	return Get().StorageURI
}

// BackendEnabled reports whether a backend account API is configured.
func (c *Config) BackendEnabled() bool {
	return c.BackendURL != ""
}

// PromptPassword prompts for a password in the terminal.
// The password is read without echoing (hidden input).
// Caller must zero the returned slice after use.
func PromptPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the command interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// PromptNewPassword prompts twice and requires both entries to match.
func PromptNewPassword() ([]byte, error) {
	first, err := PromptPassword("Enter new password: ")
	if err != nil {
		return nil, err
	}
	second, err := PromptPassword("Repeat new password: ")
	if err != nil {
		clear(first)
		return nil, err
	}
	defer clear(second)
	if string(first) != string(second) {
		clear(first)
		return nil, errors.New("passwords do not match")
	}
	return first, nil
}
