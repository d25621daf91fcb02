package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/korastor/internal/keyring"
	"github.com/julianstephens/korastor/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability and stored secrets."`
}

// KeyringSetCmd stores a secret. The value is read from stdin when omitted.
type KeyringSetCmd struct {
	Secret string `arg:"" help:"Secret name: storage-secret or redis-password."`
	Value  string `arg:"" optional:"" help:"Secret value. Read from stdin when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}

	value := cmd.Value
	if value == "" {
		in := ctx.In
		if in == nil {
			in = os.Stdin
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		value = strings.TrimSpace(line)
	}

	if secret == keyring.PostgresConnection {
		if _, err := postgres.ValidateConnString(value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			ctx.println("⚠ Connection string contains embedded credentials.")
			ctx.println("  It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(secret, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", secret, err)
	}
	ctx.printf("✓ %s stored in OS keyring\n", secret)
	return nil
}

type KeyringGetCmd struct {
	Secret string `arg:"" help:"Secret name: storage-secret or redis-password."`
}

func (cmd *KeyringGetCmd) Run(ctx *Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	value, err := keyring.Get(secret)
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("no %s found in keyring. Use 'korastor keyring set %s' to store one", secret, secret)
	}
	if err != nil {
		return err
	}

	if secret == keyring.PostgresConnection {
		ctx.println(maskPassword(value))
	} else {
		ctx.println("****")
	}
	return nil
}

type KeyringDeleteCmd struct {
	Secret string `arg:"" help:"Secret name: storage-secret or redis-password."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", secret)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", secret, err)
	}
	ctx.printf("✓ %s deleted from OS keyring\n", secret)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	ctx.println("✓ OS keyring is available")
	for _, secret := range keyring.Secrets() {
		if _, err := keyring.Get(secret); err == nil {
			ctx.printf("✓ %s is stored\n", secret)
		} else {
			ctx.printf("ℹ %s not stored\n", secret)
		}
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		idx := strings.Index(connStr, "://")
		remaining := connStr[idx+3:]
		if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
			userInfo := remaining[:atIdx]
			if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
				return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
			}
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
