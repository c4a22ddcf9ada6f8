// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/prompt-battle/auth"
)

// Persistent store keys
const (
	KeyLocked       = "promptbattle_locked_global"
	KeyName         = "promptbattle_user_name"
	KeyDeviceKey    = "promptbattle_device_key"
	KeyResultPrefix = "promptbattle_result_"
)

// ResultKey is the store key of a round's cached result
func ResultKey(round Round) string {
	return KeyResultPrefix + string(round)
}

// Store is a durable string key-value store scoped to one device
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Session owns the participant state of one device: identity, the global
// submission lock, the per-round result cache and the device key. It is
// created once per process and shared by every controller on the device.
//
// The lock only ever goes from false to true. Store read failures degrade
// to "no prior state"; they never unlock a session that is locked in memory.
type Session struct {
	store Store
	log   *slog.Logger

	mu         sync.Mutex
	identity   string
	locked     bool
	deviceKey  string
	results    map[Round]Result
	submitting bool
}

// OpenSession loads persisted state. A nil logger means slog.Default().
func OpenSession(ctx context.Context, store Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		store:   store,
		log:     logger,
		results: make(map[Round]Result, len(Rounds)),
	}

	s.identity = strings.TrimSpace(s.read(ctx, KeyName))
	s.locked = s.read(ctx, KeyLocked) == "true"
	for _, round := range Rounds {
		if res := s.readResult(ctx, round); res != nil {
			s.results[round] = res
		}
	}

	s.deviceKey = s.loadDeviceKey(ctx)
	return s
}

// loadDeviceKey returns the persisted key when it is valid. A missing or
// invalid key is replaced and written back; after a read error the new key
// is kept in memory only so the stored one survives.
func (s *Session) loadDeviceKey(ctx context.Context) string {
	v, ok, err := s.store.Get(ctx, KeyDeviceKey)
	if err == nil && ok && auth.ValidateDeviceKey(v) == nil {
		return v
	}

	key, genErr := auth.GenerateDeviceKey()
	if genErr != nil {
		s.log.Warn("falling back to uuid device key", "error", genErr)
		key = uuid.NewString()
	}
	if err != nil {
		s.log.Warn("device key unreadable, using a temporary key", "error", err)
		return key
	}
	s.write(ctx, KeyDeviceKey, key)
	return key
}

func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func (s *Session) DeviceKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceKey
}

// Result returns the cached result for round, or nil
func (s *Session) Result(round Round) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[round]
}

// Submitting reports whether a submission is outstanding
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// SetIdentity records the participant's display name. The name can be
// replaced until a submission starts.
func (s *Session) SetIdentity(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	s.mu.Lock()
	if s.locked || s.submitting {
		s.mu.Unlock()
		return ErrIdentityLocked
	}
	s.identity = name
	s.mu.Unlock()

	s.write(ctx, KeyName, name)
	return nil
}

// Refresh re-reads the lock and the result of round from the store.
// Persisted state is merged into memory; nothing is ever cleared.
func (s *Session) Refresh(ctx context.Context, round Round) {
	locked := s.read(ctx, KeyLocked) == "true"
	res := s.readResult(ctx, round)

	s.mu.Lock()
	defer s.mu.Unlock()
	if locked {
		s.locked = true
	}
	if res != nil {
		s.results[round] = res
	}
}

// beginSubmit claims the single submission slot of the device
func (s *Session) beginSubmit() (name, deviceKey string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.locked:
		return "", "", ErrLocked
	case s.submitting:
		return "", "", ErrSubmitInFlight
	case s.identity == "":
		return "", "", &ValidationError{Field: "name", Message: "enter your name before submitting"}
	}
	s.submitting = true
	return s.identity, s.deviceKey, nil
}

// endSubmit releases the slot. A non-nil result locks the session and is
// cached under its own round.
func (s *Session) endSubmit(ctx context.Context, res Result) {
	s.mu.Lock()
	s.submitting = false
	if res == nil {
		s.mu.Unlock()
		return
	}
	s.locked = true
	s.results[res.Round()] = res
	s.mu.Unlock()

	// the backend has accepted; persist even if the caller gave up waiting
	ctx = context.WithoutCancel(ctx)

	// result first so a reader that sees the lock also sees the result
	if raw, err := encodeResult(res); err != nil {
		s.log.Warn("failed to encode result", "round", res.Round(), "error", err)
	} else {
		s.write(ctx, ResultKey(res.Round()), raw)
	}
	s.write(ctx, KeyLocked, "true")
}

func (s *Session) read(ctx context.Context, key string) string {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warn("store read failed, using default", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (s *Session) readResult(ctx context.Context, round Round) Result {
	raw := s.read(ctx, ResultKey(round))
	if raw == "" {
		return nil
	}
	res, err := decodeResult(raw, round)
	if err != nil {
		s.log.Warn("ignoring unreadable cached result", "round", round, "error", err)
		return nil
	}
	return res
}

func (s *Session) write(ctx context.Context, key, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.log.Warn("store write failed", "key", key, "error", err)
	}
}
