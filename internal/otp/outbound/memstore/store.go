// Package memstore is the in-process owner of all outstanding one-time codes.
//
// A single mutex serializes every read and mutation of the key-to-record map,
// so check-then-insert (Generate) and lookup-then-delete (Verify, expiry) are
// atomic. Expiry timers are never cancelled; a timer that fires after its
// record is gone, or after the key was re-issued, is a no-op.
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"otpgate/internal/otp/entity"
	"otpgate/internal/pkg/clock"
	"otpgate/internal/pkg/codegen"
	"otpgate/internal/pkg/goerror"
	"otpgate/internal/pkg/hash"
	"otpgate/internal/pkg/uid"
)

// DefaultTTL is the validity window applied when Config.TTL is not positive.
const DefaultTTL = 30 * time.Second

// Config carries the collaborators a Store needs.
type Config struct {
	// TTL is how long an issued code stays valid.
	TTL time.Duration
	// Hasher digests codes before they are stored.
	Hasher hash.Hash
	// Codes draws fresh plaintext codes.
	Codes codegen.Generator
	// UID assigns issuance IDs to records.
	UID uid.NumberID
	// Clock stamps issuance times.
	Clock clock.Clocker
}

// Store maps keys to outstanding code records.
type Store struct {
	mu      sync.Mutex
	records map[string]entity.Record

	ttl    time.Duration
	hasher hash.Hash
	codes  codegen.Generator
	uid    uid.NumberID
	clock  clock.Clocker

	issued   atomic.Int64
	verified atomic.Int64
	rejected atomic.Int64
	expired  atomic.Int64
}

// New creates a Store. A non-positive TTL falls back to DefaultTTL.
func New(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{
		records: make(map[string]entity.Record),
		ttl:     ttl,
		hasher:  cfg.Hasher,
		codes:   cfg.Codes,
		uid:     cfg.UID,
		clock:   cfg.Clock,
	}
}

// TTL returns the configured validity window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Generate issues a new code for key and returns the plaintext once.
//
// It fails with goerror.ErrConflict when the key already has an outstanding
// code; nothing is mutated in that case. The record insert and the expiry
// timer are armed under the same mutex hold, so no record can exist without
// an expiry scheduled for it.
func (s *Store) Generate(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; ok {
		return "", fmt.Errorf("key %q already has an outstanding code: %w", key, goerror.ErrConflict)
	}

	code, err := s.codes.Generate()
	if err != nil {
		return "", fmt.Errorf("draw code: %w", err)
	}

	sum, err := s.hasher.Hash(code)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	rec := entity.Record{
		ID:       s.uid.Generate(),
		Key:      key,
		CodeHash: sum,
		IssuedAt: s.clock.Now(),
	}
	s.records[key] = rec
	time.AfterFunc(s.ttl, func() { s.expire(key, rec.ID) })

	s.issued.Inc()

	return code, nil
}

// Verify consumes the outstanding code for key, if any, and reports whether
// candidate matched it.
//
// An absent record (never generated, already verified, or expired) returns
// false without error. A present record is removed whether the candidate
// matches or not: a wrong guess burns the code.
func (s *Store) Verify(ctx context.Context, key, candidate string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return false
	}

	delete(s.records, key)

	if !s.hasher.Verify(string(rec.CodeHash), candidate) {
		s.rejected.Inc()
		return false
	}

	s.verified.Inc()
	return true
}

// Outstanding returns the number of currently valid records.
func (s *Store) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Stats returns the running issuance totals.
func (s *Store) Stats() entity.Stats {
	return entity.Stats{
		Issued:   s.issued.Load(),
		Verified: s.verified.Load(),
		Rejected: s.rejected.Load(),
		Expired:  s.expired.Load(),
	}
}

// expire removes the record for key if it is still the same issuance.
//
// The ID check keeps a stale timer from deleting a successor record created
// after this one was consumed.
func (s *Store) expire(key string, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || rec.ID != id {
		return
	}

	delete(s.records, key)
	s.expired.Inc()

	slog.Info("otp expired", "key", key, "otp_id", id)
}
