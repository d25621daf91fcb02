package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/korastor/internal/constants"
	kerrors "github.com/julianstephens/korastor/internal/errors"
	"github.com/julianstephens/korastor/internal/keyring"
	"github.com/julianstephens/korastor/internal/storage"
	"github.com/julianstephens/korastor/internal/storage/file"
	"github.com/julianstephens/korastor/internal/storage/memory"
	"github.com/julianstephens/korastor/internal/storage/postgres"
	"github.com/julianstephens/korastor/internal/storage/redis"
	"github.com/julianstephens/korastor/internal/storage/sqlite"
)

const (
	// EnvDBConnection holds a full postgres connection string, password
	// included, for the "postgres" store keyword.
	EnvDBConnection  = "KORASTOR_DB_CONNECTION"
	EnvRedisPassword = "KORASTOR_REDIS_PASSWORD"
)

// OpenProvider picks a backend from the --store value:
//
//	postgres://user@host/db   postgres, password from .pgpass or PGPASSWORD
//	postgres                  postgres, connection string from env or keyring
//	redis://host:port/db      redis, password from env or keyring
//	file:<dir>                one JSON file per key
//	memory                    in-process, nothing survives exit
//	<path>                    sqlite database file (default)
func OpenProvider(spec string) (storage.Provider, error) {
	switch {
	case strings.HasPrefix(spec, "postgres://"), strings.HasPrefix(spec, "postgresql://"):
		if _, err := postgres.ValidateConnString(spec); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, kerrors.WithHint(err, fmt.Sprintf(
					"store the full connection string with 'korastor keyring set %s <conn>' and use --store=postgres, export %s, or use .pgpass",
					keyring.PostgresConnection, EnvDBConnection))
			}
			return nil, err
		}
		return postgres.New(spec), nil

	case spec == "postgres":
		connStr, err := postgresFromSecrets()
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil

	case strings.HasPrefix(spec, "redis://"):
		opts, err := redis.ParseURL(spec)
		if err != nil {
			return nil, kerrors.WithHint(err, fmt.Sprintf("set the password with 'korastor keyring set %s' or %s", keyring.RedisPassword, EnvRedisPassword))
		}
		opts.Password = redisPassword()
		return redis.New(opts), nil

	case strings.HasPrefix(spec, "file:"):
		dir := strings.TrimPrefix(spec, "file:")
		if dir == "" {
			return nil, errors.New("file store needs a directory, e.g. file:~/.config/korastor/state")
		}
		return file.NewStore(kong.ExpandPath(dir)), nil

	case spec == "memory":
		return memory.New(), nil

	case spec == "":
		return nil, errors.New("no store configured")
	}
	return sqlite.NewStore(kong.ExpandPath(spec)), nil
}

func postgresFromSecrets() (string, error) {
	if connStr := os.Getenv(EnvDBConnection); connStr != "" {
		return connStr, nil
	}
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", kerrors.WithHint(errors.New("no PostgreSQL connection string configured"),
			fmt.Sprintf("run 'korastor keyring set %s <conn>' or export %s", keyring.PostgresConnection, EnvDBConnection))
	}
	if err != nil {
		return "", err
	}
	return connStr, nil
}

// redisPassword prefers the environment over the keyring. A missing or
// unavailable keyring means no password.
func redisPassword() string {
	if pw := os.Getenv(EnvRedisPassword); pw != "" {
		return pw
	}
	pw, err := keyring.Get(keyring.RedisPassword)
	if err != nil {
		return ""
	}
	return pw
}

// ConfigDirFor returns the directory holding backups and logs for a store:
// the sqlite file's directory, or the default config directory otherwise.
func ConfigDirFor(p storage.Provider) string {
	if s, ok := p.(*sqlite.Store); ok {
		return filepath.Dir(s.Path())
	}
	return kong.ExpandPath(constants.DefaultConfigDir)
}
