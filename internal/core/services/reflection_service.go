package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

// StreakEnqueuer schedules a background streak recompute for a user.
type StreakEnqueuer interface {
	Enqueue(userID string)
}

type ReflectionService struct {
	repo          domain.ReflectionRepository
	challengeRepo domain.ChallengeRepository
	generator     domain.ChallengeGenerator
	streaks       StreakEnqueuer
	logger        *zap.Logger
}

func NewReflectionService(
	repo domain.ReflectionRepository,
	challengeRepo domain.ChallengeRepository,
	generator domain.ChallengeGenerator,
	streaks StreakEnqueuer,
	logger *zap.Logger,
) *ReflectionService {
	return &ReflectionService{
		repo:          repo,
		challengeRepo: challengeRepo,
		generator:     generator,
		streaks:       streaks,
		logger:        logger,
	}
}

type CreateReflectionInput struct {
	UserID  string
	Text    string
	ThemeID string
	Mood    string
}

// CreateReflectionResult carries the persisted reflection plus whatever
// challenges generation produced. Warning is set when generation failed:
// the reflection itself still succeeded and the client should tell the user
// their challenges will be missing, non-fatally.
type CreateReflectionResult struct {
	Reflection *domain.Reflection  `json:"reflection"`
	Challenges []*domain.Challenge `json:"challenges"`
	Warning    string              `json:"warning,omitempty"`
}

func (s *ReflectionService) Create(ctx context.Context, input CreateReflectionInput) (*CreateReflectionResult, error) {
	reflection, err := domain.NewReflection(input.UserID, domain.SanitizeText(input.Text), input.ThemeID, input.Mood)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, reflection); err != nil {
		return nil, err
	}

	s.streaks.Enqueue(reflection.UserID)

	result := &CreateReflectionResult{Reflection: reflection}

	challenges, err := s.generateChallenges(ctx, reflection)
	if err != nil {
		// The reflection is already safe. Generation failure degrades to a
		// journal entry without challenges.
		s.logger.Warn("challenge generation failed",
			zap.String("reflection_id", reflection.ID),
			zap.Error(err),
		)
		result.Warning = "challenges could not be generated for this reflection"
		return result, nil
	}

	result.Challenges = challenges
	return result, nil
}

func (s *ReflectionService) generateChallenges(ctx context.Context, reflection *domain.Reflection) ([]*domain.Challenge, error) {
	stubs, err := s.generator.Generate(ctx, domain.GenerationRequest{
		ReflectionText: reflection.Text,
		ThemeID:        reflection.ThemeID,
	})
	if err != nil {
		return nil, err
	}

	stubs, err = domain.ValidateStubs(stubs)
	if err != nil {
		return nil, err
	}

	challenges := make([]*domain.Challenge, 0, len(stubs))
	for _, stub := range stubs {
		c, err := domain.NewChallenge(reflection.UserID, reflection.ID, stub.Title, stub.Description, stub.Category, stub.Points)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}

	if err := s.challengeRepo.CreateBatch(ctx, challenges); err != nil {
		return nil, err
	}

	return challenges, nil
}

func (s *ReflectionService) GetByID(ctx context.Context, id, userID string) (*domain.Reflection, error) {
	reflection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reflection.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return reflection, nil
}

func (s *ReflectionService) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.Reflection, error) {
	return s.repo.ListByUserID(ctx, userID, from, to)
}

func (s *ReflectionService) Delete(ctx context.Context, id, userID string) error {
	reflection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reflection.UserID != userID {
		return domain.ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.streaks.Enqueue(userID)
	return nil
}
