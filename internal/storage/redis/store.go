package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/storage"
)

// Options configures the redis backend.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // prepended to every key, defaults to "korastor:"
}

// ParseURL reads redis://[user@]host:port/db. A password in the URL is
// rejected; supply it through Options.Password instead.
func ParseURL(raw string) (Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Options{}, fmt.Errorf("invalid redis URL: %w", err)
	}
	if u.Scheme != "redis" {
		return Options{}, fmt.Errorf("invalid redis URL: unsupported scheme %q", u.Scheme)
	}
	if _, set := u.User.Password(); set {
		return Options{}, errors.New("redis URL must not contain a password")
	}
	if u.Host == "" {
		return Options{}, errors.New("invalid redis URL: missing host")
	}

	opts := Options{Addr: u.Host}
	if u.Port() == "" {
		opts.Addr = u.Host + ":6379"
	}
	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return Options{}, fmt.Errorf("invalid redis database %q: %w", db, err)
		}
		opts.DB = n
	}
	opts.Prefix = u.Query().Get("prefix")
	return opts, nil
}

type Store struct {
	opts   Options
	client *redis.Client
}

func New(opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = constants.AppName + ":"
	}
	return &Store{opts: opts}
}

func (s *Store) connect() {
	if s.client != nil {
		return
	}
	s.client = redis.NewClient(&redis.Options{
		Addr:         s.opts.Addr,
		Password:     s.opts.Password,
		DB:           s.opts.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Init connects and verifies the server answers; redis needs no schema.
func (s *Store) Init() error {
	return s.Load()
}

func (s *Store) Load() error {
	s.connect()
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", s.opts.Addr, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Store) key(k string) string {
	return s.opts.Prefix + k
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, storage.ErrNotInitialized
	}
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.client == nil {
		return storage.ErrNotInitialized
	}
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return storage.ErrNotInitialized
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return storage.ErrNotInitialized
	}
	return s.client.Ping(ctx).Err()
}

func (s *Store) Describe() string {
	return fmt.Sprintf("redis: %s/%d", s.opts.Addr, s.opts.DB)
}

var _ storage.Provider = (*Store)(nil)
