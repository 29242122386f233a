package authtoken

import (
	"context"
	"sync"
	"time"

	"github.com/jobboard/backend/internal/domain"
)

const (
	defaultTTL           = 15 * time.Minute
	DefaultSweepInterval = 10 * time.Minute
)

// Store holds issued magic-link tokens in process memory. Verification is
// one-shot: any lookup of a present token removes it, whether it was still
// valid or already expired. Issuing a new token does not invalidate earlier
// tokens for the same email.
type Store struct {
	mu     sync.Mutex
	tokens map[string]domain.MagicToken
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Store)

func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// WithClock replaces the time source, so tests can advance virtual time
// instead of sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		tokens: make(map[string]domain.MagicToken),
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores token for email, expiring after the store TTL. No uniqueness
// check: a second Put of the same token overwrites the first.
func (s *Store) Put(token, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = domain.MagicToken{
		Email:     email,
		ExpiresAt: s.now().Add(s.ttl),
	}
}

// TakeIfValid removes token from the store and classifies the outcome.
// An absent token returns ErrTokenInvalid. A present but expired token is
// still deleted and returns ErrTokenExpired. The check-then-delete runs
// under one lock, so concurrent calls for the same token yield exactly one
// success.
func (s *Store) TakeIfValid(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mt, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	delete(s.tokens, token)

	if s.now().After(mt.ExpiresAt) {
		return "", domain.ErrTokenExpired
	}
	return mt.Email, nil
}

// Sweep drops expired tokens. Purely memory reclamation; TakeIfValid
// self-invalidates, so correctness does not depend on the sweep.
func (s *Store) Sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for token, mt := range s.tokens {
		if now.After(mt.ExpiresAt) {
			delete(s.tokens, token)
		}
	}
}

// Len reports the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// StartJanitor sweeps expired tokens every interval until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
