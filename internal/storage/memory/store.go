package memory

import (
	"context"
	"sync"

	"github.com/julianstephens/korastor/internal/storage"
)

// Store keeps blobs in a map. Failures can be injected for tests.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte

	getErr error
	setErr error

	gets int
	sets int
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) Describe() string { return "memory" }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// SetFailures makes every following Get and Set fail with the given
// errors. Pass nil to clear.
func (s *Store) SetFailures(getErr, setErr error) {
	s.mu.Lock()
	s.getErr, s.setErr = getErr, setErr
	s.mu.Unlock()
}

// Calls reports how many Get and Set calls have been made.
func (s *Store) Calls() (gets, sets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.sets
}

// Peek returns the stored value without counting as a Get.
func (s *Store) Peek(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return append([]byte(nil), v...), ok
}

var _ storage.Provider = (*Store)(nil)
