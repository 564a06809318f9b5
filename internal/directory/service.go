// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/chatkit-tui/internal/model"
)

// =============================================================================
// MEMBER SOURCE
// =============================================================================

// MemberSource lists the members a keyword is resolved against. Implementations
// must be safe for concurrent use; the service queries from worker goroutines.
type MemberSource interface {
	Members(ctx context.Context) ([]model.User, error)
}

// Roster is an in-memory MemberSource.
type Roster struct {
	mu      sync.RWMutex
	members []model.User
}

// NewRoster builds a roster from an initial member list.
func NewRoster(members []model.User) *Roster {
	r := &Roster{}
	r.Replace(members)
	return r
}

// Replace swaps the full member list.
func (r *Roster) Replace(members []model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = make([]model.User, len(members))
	copy(r.members, members)
}

// Add inserts a member, replacing any existing entry with the same ID.
func (r *Roster) Add(u model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.members {
		if m.ID == u.ID {
			r.members[i] = u
			return
		}
	}
	r.members = append(r.members, u)
}

// Members returns a copy of the current member list.
func (r *Roster) Members(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.User, len(r.members))
	copy(out, r.members)
	return out, nil
}

// =============================================================================
// SERVICE
// =============================================================================

// ServiceConfig holds the tunables of a Service.
type ServiceConfig struct {
	// FetchTimeout bounds a single lookup against the member source.
	FetchTimeout time.Duration
	// RatePerSec and Burst shape the lookup rate limiter. A user refining a
	// keyword quickly collapses into at most RatePerSec source queries.
	RatePerSec float64
	Burst      int
}

// DefaultServiceConfig returns the service defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		FetchTimeout: 2 * time.Second,
		RatePerSec:   5,
		Burst:        2,
	}
}

// Service resolves mention keywords against a member source. It satisfies the
// mention data source contract: FetchUsers runs the lookup on a goroutine and
// hands the ranked result to deliver. Deliver is called from that goroutine;
// the caller is responsible for re-entering its own thread.
type Service struct {
	source  MemberSource
	cfg     ServiceConfig
	limiter *rate.Limiter
}

// NewService wraps a member source with ranking and rate limiting.
func NewService(source MemberSource, cfg ServiceConfig) *Service {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultServiceConfig().FetchTimeout
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = DefaultServiceConfig().RatePerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultServiceConfig().Burst
	}
	return &Service{
		source:  source,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
	}
}

// Search resolves a keyword synchronously: members matching the keyword,
// best match first. An empty keyword returns all members in source order,
// online members first.
func (s *Service) Search(ctx context.Context, keyword string) ([]model.User, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	members, err := s.source.Members(ctx)
	if err != nil {
		return nil, err
	}
	ranked := Rank(members, keyword)
	if keyword == "" {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].IsOnline && !ranked[j].IsOnline
		})
	}
	return ranked, nil
}

// FetchUsers implements the mention data source contract. Failed or timed-out
// lookups deliver an empty result so the popup dismisses instead of going
// stale.
func (s *Service) FetchUsers(keyword string, deliver func(users []model.User)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
		defer cancel()

		users, err := s.Search(ctx, keyword)
		if err != nil {
			deliver(nil)
			return
		}
		deliver(users)
	}()
}
