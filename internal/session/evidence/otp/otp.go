// Package otp issues and checks one-time codes for challenge/confirm
// verifiers. Codes are stored as bcrypt hashes; the plaintext exists only in
// the delivery channel.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	dErrors "campustrust/pkg/domain-errors"
	"campustrust/pkg/requestcontext"
)

const (
	codeDigits  = 6
	maxAttempts = 5
	codeTTL     = 10 * time.Minute
)

type challenge struct {
	hash      []byte
	expiresAt time.Time
	attempts  int
}

// Store keeps outstanding challenges in memory, keyed by destination.
type Store struct {
	mu         sync.Mutex
	challenges map[string]*challenge
}

func NewStore() *Store {
	return &Store{challenges: make(map[string]*challenge)}
}

// Issue creates a fresh code for the destination, replacing any outstanding
// challenge, and returns the plaintext for delivery.
func (s *Store) Issue(ctx context.Context, destination string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[destination] = &challenge{
		hash:      hash,
		expiresAt: requestcontext.Now(ctx).Add(codeTTL),
	}
	return code, nil
}

// Check verifies a submitted code. Wrong codes burn an attempt; expired or
// exhausted challenges are dropped and must be reissued.
func (s *Store) Check(ctx context.Context, destination, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[destination]
	if !ok {
		return dErrors.New(dErrors.CodeEvidenceRejected, "no outstanding code; request a new one")
	}
	if requestcontext.Now(ctx).After(c.expiresAt) {
		delete(s.challenges, destination)
		return dErrors.New(dErrors.CodeEvidenceRejected, "code expired; request a new one")
	}
	if c.attempts >= maxAttempts {
		delete(s.challenges, destination)
		return dErrors.New(dErrors.CodeEvidenceRejected, "too many attempts; request a new one")
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(code)); err != nil {
		c.attempts++
		return dErrors.New(dErrors.CodeEvidenceRejected, "incorrect code")
	}
	delete(s.challenges, destination)
	return nil
}

func randomCode() (string, error) {
	bound := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		bound.Mul(bound, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
