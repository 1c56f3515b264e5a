package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

type StreakService struct {
	userRepo       domain.UserRepository
	reflectionRepo domain.ReflectionRepository
	streakRepo     domain.StreakRepository
	milestoneRepo  domain.MilestoneRepository
	danger         domain.DangerConfig
	logger         *zap.Logger
}

func NewStreakService(
	userRepo domain.UserRepository,
	reflectionRepo domain.ReflectionRepository,
	streakRepo domain.StreakRepository,
	milestoneRepo domain.MilestoneRepository,
	danger domain.DangerConfig,
	logger *zap.Logger,
) *StreakService {
	return &StreakService{
		userRepo:       userRepo,
		reflectionRepo: reflectionRepo,
		streakRepo:     streakRepo,
		milestoneRepo:  milestoneRepo,
		danger:         danger,
		logger:         logger,
	}
}

func (s *StreakService) activityDays(ctx context.Context, userID string) (map[domain.ActivityDay]bool, *time.Location, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	loc := user.Location()

	timestamps, err := s.reflectionRepo.ListTimestamps(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return domain.ActivityDays(timestamps, loc), loc, nil
}

// Evaluate recomputes the streak counters from the ActivityDay set, bridging
// missed days with available shields, and persists the result. Bridged days
// are remembered on the state so a shield is charged once per gap, not once
// per recompute.
func (s *StreakService) Evaluate(ctx context.Context, userID string) (*domain.StreakState, error) {
	days, loc, err := s.activityDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	state, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	lastActivity := ""
	for day := range days {
		if day > lastActivity {
			lastActivity = day
		}
	}

	// Already-bridged days count as activity and consume nothing further.
	for _, day := range state.BridgedDays {
		days[day] = true
	}

	today := domain.LocalDay(time.Now(), loc)
	current, bridged := domain.CurrentStreakWithShields(days, today, state.ShieldCount)

	longest := domain.LongestStreak(days)
	if current > longest {
		longest = current
	}
	if state.LongestStreak > longest {
		longest = state.LongestStreak
	}

	state.CurrentStreak = current
	state.LongestStreak = longest
	state.LastActivityDay = lastActivity
	state.ShieldCount -= len(bridged)
	state.ShieldActive = len(bridged) > 0
	state.BridgedDays = append(state.BridgedDays, bridged...)
	state.UpdatedAt = time.Now().UTC()

	if len(bridged) > 0 {
		s.logger.Info("streak shield consumed",
			zap.String("user_id", userID),
			zap.Strings("bridged_days", bridged),
			zap.Int("shields_left", state.ShieldCount),
		)
	}

	if err := s.streakRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	return state, nil
}

// StreakStatus is the client-facing streak view, including the danger
// classification for the current day.
type StreakStatus struct {
	*domain.StreakState
	Danger      domain.DangerStatus      `json:"danger"`
	TodayActive bool                     `json:"today_active"`
	NextUp      []domain.MilestoneStatus `json:"milestones"`
}

func (s *StreakService) Status(ctx context.Context, userID string) (*StreakStatus, error) {
	state, err := s.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}

	days, loc, err := s.activityDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	todayActive := days[domain.LocalDay(now, loc)]

	celebrated, err := s.celebratedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StreakStatus{
		StreakState: state,
		Danger:      domain.StreakDanger(now, loc, todayActive, s.danger),
		TodayActive: todayActive,
		NextUp:      domain.MilestoneStatuses(state.CurrentStreak, celebrated),
	}, nil
}

// Calendar returns the per-day activity map for one calendar month
// ("2006-01"), zero-filled for every day of the month.
func (s *StreakService) Calendar(ctx context.Context, userID, month string) (map[string]bool, error) {
	days, loc, err := s.activityDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return nil, domain.ErrInvalidMonth
	}

	window := make(map[string]bool)
	for cursor := start; cursor.Month() == start.Month(); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format(domain.DayFormat)
		window[day] = days[day]
	}
	return window, nil
}

func (s *StreakService) celebratedSet(ctx context.Context, userID string) (map[int]bool, error) {
	milestones, err := s.milestoneRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	celebrated := make(map[int]bool, len(milestones))
	for _, m := range milestones {
		celebrated[m.ThresholdDays] = true
	}
	return celebrated, nil
}

// Milestones lists the full catalog resolved against the user's streak.
func (s *StreakService) Milestones(ctx context.Context, userID string) ([]domain.MilestoneStatus, error) {
	state, err := s.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}

	celebrated, err := s.celebratedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	return domain.MilestoneStatuses(state.CurrentStreak, celebrated), nil
}

// Celebrate marks a reached milestone as celebrated and grants its reward.
// One-way: a second celebration of the same threshold fails with
// ErrMilestoneCelebrated and grants nothing.
func (s *StreakService) Celebrate(ctx context.Context, userID string, threshold int) (*domain.MilestoneDef, error) {
	def, ok := domain.MilestoneFor(threshold)
	if !ok {
		return nil, domain.ErrMilestoneUnknown
	}

	state, err := s.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.CurrentStreak < threshold {
		return nil, domain.ErrMilestoneNotReached
	}

	milestone := &domain.Milestone{
		UserID:        userID,
		ThresholdDays: threshold,
		CelebratedAt:  time.Now().UTC(),
	}
	if err := s.milestoneRepo.Create(ctx, milestone); err != nil {
		return nil, err
	}

	switch def.RewardType {
	case domain.RewardShield:
		state.ShieldCount += def.RewardAmount
		if state.ShieldCount > domain.MaxHeldShields {
			state.ShieldCount = domain.MaxHeldShields
		}
	case domain.RewardGems:
		state.GemCount += def.RewardAmount
	}
	state.UpdatedAt = time.Now().UTC()

	if err := s.streakRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	s.logger.Info("milestone celebrated",
		zap.String("user_id", userID),
		zap.Int("threshold_days", threshold),
		zap.String("reward", def.RewardType),
	)

	return &def, nil
}

// PurchaseShield trades gems for one shield charge.
func (s *StreakService) PurchaseShield(ctx context.Context, userID string) (*domain.StreakState, error) {
	state, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if state.ShieldCount >= domain.MaxHeldShields {
		return nil, domain.ErrShieldLimitExceeded
	}
	if state.GemCount < domain.ShieldGemCost {
		return nil, domain.ErrInvalidShieldPayment
	}

	state.GemCount -= domain.ShieldGemCost
	state.ShieldCount++
	state.UpdatedAt = time.Now().UTC()

	if err := s.streakRepo.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}
