package keyring

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/korastor/internal/constants"
)

// Secret names an entry korastor keeps in the OS keyring.
type Secret string

const (
	// PostgresConnection is a full postgres connection string, password included
	PostgresConnection Secret = constants.DefaultKeyringUser
	RedisPassword      Secret = "redis-password"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	ErrUnknownSecret      = errors.New("unknown secret")
)

// Secrets lists every secret name the CLI accepts.
func Secrets() []Secret {
	return []Secret{PostgresConnection, RedisPassword}
}

// ParseSecret maps a CLI argument to a Secret.
func ParseSecret(name string) (Secret, error) {
	s := Secret(name)
	if !slices.Contains(Secrets(), s) {
		return "", fmt.Errorf("%w %q (known: %s, %s)", ErrUnknownSecret, name, PostgresConnection, RedisPassword)
	}
	return s, nil
}

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(s Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(s))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func Set(s Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", s)
	}
	if err := keyring.Set(constants.AppName, string(s), value); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func Delete(s Secret) error {
	err := keyring.Delete(constants.AppName, string(s))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString retrieves the postgres connection string.
func GetConnectionString() (string, error) {
	return Get(PostgresConnection)
}

func SetConnectionString(connStr string) error {
	return Set(PostgresConnection, connStr)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
