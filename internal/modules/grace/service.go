package grace

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrMissingHolder = errors.New("missing grace holder")

// Store persists one State per holder.
// Update must apply fn atomically with respect to other updates of the same holder;
// a missing holder is passed to fn as the zero State.
type Store interface {
	Load(ctx context.Context, holder string) (State, error)
	Update(ctx context.Context, holder string, fn func(State) (State, error)) (State, error)
}

// Service orchestrates the grace gate over a Store with an injected clock.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Tokens returns the holder's normalized state without writing it.
func (s *Service) Tokens(ctx context.Context, holder string) (State, error) {
	if strings.TrimSpace(holder) == "" {
		return State{}, ErrMissingHolder
	}
	st, err := s.store.Load(ctx, holder)
	if err != nil {
		return State{}, err
	}
	return Normalize(st, s.now()), nil
}

// CheckLateChange evaluates a change to the window starting at windowStart.
func (s *Service) CheckLateChange(ctx context.Context, holder string, windowStart time.Time) (Decision, error) {
	if strings.TrimSpace(holder) == "" {
		return Decision{}, ErrMissingHolder
	}
	st, err := s.store.Load(ctx, holder)
	if err != nil {
		return Decision{}, err
	}
	return Check(st, windowStart, s.now()), nil
}

// ConsumeToken spends one token and returns the remaining state.
// Returns ErrNoTokens when the month's allowance is exhausted.
func (s *Service) ConsumeToken(ctx context.Context, holder string) (State, error) {
	if strings.TrimSpace(holder) == "" {
		return State{}, ErrMissingHolder
	}
	now := s.now()
	return s.store.Update(ctx, holder, func(st State) (State, error) {
		return Consume(st, now)
	})
}
