package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type InMemoryReflectionRepository struct {
	store map[string]*domain.Reflection

	mu sync.RWMutex
}

func NewInMemoryReflectionRepository() *InMemoryReflectionRepository {
	return &InMemoryReflectionRepository{
		store: make(map[string]*domain.Reflection),
	}
}

func (r *InMemoryReflectionRepository) Create(ctx context.Context, reflection *domain.Reflection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *reflection
	r.store[reflection.ID] = &clone
	return nil
}

func (r *InMemoryReflectionRepository) GetByID(ctx context.Context, id string) (*domain.Reflection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reflection, ok := r.store[id]
	if !ok {
		return nil, domain.ErrReflectionNotFound
	}
	clone := *reflection
	return &clone, nil
}

func (r *InMemoryReflectionRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.Reflection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Reflection
	for _, ref := range r.store {
		if ref.UserID == userID && !ref.CreatedAt.Before(from) && !ref.CreatedAt.After(to) {
			clone := *ref
			list = append(list, &clone)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *InMemoryReflectionRepository) ListTimestamps(ctx context.Context, userID string) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var timestamps []time.Time
	for _, ref := range r.store {
		if ref.UserID == userID {
			timestamps = append(timestamps, ref.CreatedAt)
		}
	}

	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].Before(timestamps[j])
	})
	return timestamps, nil
}

func (r *InMemoryReflectionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrReflectionNotFound
	}
	delete(r.store, id)
	return nil
}

// InMemoryChallengeRepository backs both the challenge lifecycle and the
// progress read side, because CompleteAndAward must mutate the challenge,
// the ledger, and the point total under one lock, exactly as the Postgres
// implementation does under one transaction.
type InMemoryChallengeRepository struct {
	challenges map[string]*domain.Challenge
	ledger     []*domain.PointsHistoryEntry
	totals     map[string]int

	mu sync.RWMutex
}

func NewInMemoryChallengeRepository() *InMemoryChallengeRepository {
	return &InMemoryChallengeRepository{
		challenges: make(map[string]*domain.Challenge),
		totals:     make(map[string]int),
	}
}

func (r *InMemoryChallengeRepository) CreateBatch(ctx context.Context, challenges []*domain.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range challenges {
		clone := *c
		r.challenges[c.ID] = &clone
	}
	return nil
}

func (r *InMemoryChallengeRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	challenge, ok := r.challenges[id]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	clone := *challenge
	return &clone, nil
}

func (r *InMemoryChallengeRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Challenge
	for _, c := range r.challenges {
		if c.UserID == userID {
			clone := *c
			list = append(list, &clone)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *InMemoryChallengeRepository) ListCompletedByUserID(ctx context.Context, userID string) ([]*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Challenge
	for _, c := range r.challenges {
		if c.UserID == userID && c.CompletedAt != nil {
			clone := *c
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *InMemoryChallengeRepository) CompleteAndAward(ctx context.Context, challengeID, userID string, completedAt time.Time) (*domain.Challenge, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	challenge, ok := r.challenges[challengeID]
	if !ok || challenge.UserID != userID {
		return nil, 0, domain.ErrChallengeNotFound
	}

	switch {
	case challenge.CompletedAt != nil:
		return nil, 0, domain.ErrChallengeAlreadyCompleted
	case challenge.DismissedAt != nil:
		return nil, 0, domain.ErrChallengeDismissed
	case completedAt.After(challenge.DueDate):
		return nil, 0, domain.ErrChallengeExpired
	}

	ts := completedAt.UTC()
	challenge.CompletedAt = &ts

	entry := domain.NewPointsHistoryEntry(userID, challengeID, challenge.Points)
	r.ledger = append(r.ledger, entry)
	r.totals[userID] += challenge.Points

	clone := *challenge
	return &clone, r.totals[userID], nil
}

func (r *InMemoryChallengeRepository) Dismiss(ctx context.Context, challengeID, userID string, dismissedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	challenge, ok := r.challenges[challengeID]
	if !ok || challenge.UserID != userID {
		return domain.ErrChallengeNotFound
	}

	switch {
	case challenge.CompletedAt != nil:
		return domain.ErrChallengeAlreadyCompleted
	case challenge.DismissedAt != nil:
		return domain.ErrChallengeDismissed
	}

	ts := dismissedAt.UTC()
	challenge.DismissedAt = &ts
	return nil
}

func (r *InMemoryChallengeRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, c := range r.challenges {
		if c.CompletedAt == nil && c.DismissedAt == nil && c.DueDate.Before(cutoff) {
			delete(r.challenges, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryChallengeRepository) Get(ctx context.Context, userID string) (*domain.UserProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &domain.UserProgress{
		UserID:      userID,
		TotalPoints: r.totals[userID],
	}, nil
}

func (r *InMemoryChallengeRepository) ListHistory(ctx context.Context, userID string, since time.Time) ([]*domain.PointsHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.PointsHistoryEntry
	for _, e := range r.ledger {
		if e.UserID == userID && !e.CreatedAt.Before(since) {
			clone := *e
			entries = append(entries, &clone)
		}
	}
	return entries, nil
}

type InMemoryStreakRepository struct {
	store map[string]*domain.StreakState

	mu sync.RWMutex
}

func NewInMemoryStreakRepository() *InMemoryStreakRepository {
	return &InMemoryStreakRepository{
		store: make(map[string]*domain.StreakState),
	}
}

func (r *InMemoryStreakRepository) Get(ctx context.Context, userID string) (*domain.StreakState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.store[userID]
	if !ok {
		return &domain.StreakState{UserID: userID}, nil
	}

	clone := *state
	clone.BridgedDays = append([]string(nil), state.BridgedDays...)
	return &clone, nil
}

func (r *InMemoryStreakRepository) Save(ctx context.Context, state *domain.StreakState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *state
	clone.BridgedDays = append([]string(nil), state.BridgedDays...)
	r.store[state.UserID] = &clone
	return nil
}

type InMemoryMilestoneRepository struct {
	store map[string]map[int]*domain.Milestone

	mu sync.RWMutex
}

func NewInMemoryMilestoneRepository() *InMemoryMilestoneRepository {
	return &InMemoryMilestoneRepository{
		store: make(map[string]map[int]*domain.Milestone),
	}
}

func (r *InMemoryMilestoneRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Milestone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Milestone
	for _, m := range r.store[userID] {
		clone := *m
		list = append(list, &clone)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].ThresholdDays < list[j].ThresholdDays
	})
	return list, nil
}

func (r *InMemoryMilestoneRepository) Create(ctx context.Context, milestone *domain.Milestone) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byThreshold, ok := r.store[milestone.UserID]
	if !ok {
		byThreshold = make(map[int]*domain.Milestone)
		r.store[milestone.UserID] = byThreshold
	}

	if _, exists := byThreshold[milestone.ThresholdDays]; exists {
		return domain.ErrMilestoneCelebrated
	}

	clone := *milestone
	byThreshold[milestone.ThresholdDays] = &clone
	return nil
}
