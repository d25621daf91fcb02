// Package config supplies defaults for CLI flags from a YAML file and a
// .env file. Flags and environment variables always win over the file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/korastor/internal/constants"
)

// YAML is a kong.ConfigurationLoader for YAML files. Keys match flag names
// in snake_case or kebab-case; nested mappings address dotted flag names.
// Flags whose environment variable is set are left to the environment.
func YAML(r io.Reader) (kong.Resolver, error) {
	var values map[string]any
	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			values = map[string]any{}
		} else {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	}

	normalized, err := normalize(values)
	if err != nil {
		return nil, err
	}
	blob, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	resolver, err := kong.JSON(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	return envFirst{resolver}, nil
}

// envFirst hides config values for flags that the environment already sets.
// kong applies resolvers after env defaults, so without this the file would
// win.
type envFirst struct {
	kong.Resolver
}

func (r envFirst) Resolve(ctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	if flag.Tag != nil {
		for _, env := range flag.Tag.Envs {
			if _, ok := os.LookupEnv(env); ok {
				return nil, nil
			}
		}
	}
	return r.Resolver.Resolve(ctx, parent, flag)
}

// normalize converts any non-string-keyed mappings so the tree can be
// re-encoded as JSON.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("invalid config file: non-string key %v", k)
			}
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

// Paths returns the config files consulted in order: the user config file,
// then one in the working directory.
func Paths() []string {
	return []string{constants.DefaultConfigFile, "korastor.yaml"}
}

// LoadDotenv loads variables from each existing file into the environment
// without overriding variables that are already set. Missing files are
// skipped.
func LoadDotenv(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		p = kong.ExpandPath(p)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", filepath.Base(p), err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// DotenvPaths are the .env files read before flags are parsed.
func DotenvPaths() []string {
	return []string{".env", filepath.Join(constants.DefaultConfigDir, ".env")}
}
