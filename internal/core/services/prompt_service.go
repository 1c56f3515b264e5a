package services

import (
	"context"
	"sync"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

// PromptService owns the generation prompt presets. The catalog is in-memory
// configuration guarded by a mutex; every mutation bumps the config version.
type PromptService struct {
	mu     sync.RWMutex
	config *domain.PromptConfig
}

func NewPromptService() *PromptService {
	return &PromptService{
		config: domain.DefaultPromptConfig(),
	}
}

func (s *PromptService) Config(ctx context.Context) domain.PromptConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := *s.config
	clone.Presets = append([]domain.PromptPreset(nil), s.config.Presets...)
	return clone
}

func (s *PromptService) Enable(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Enable(id)
}

func (s *PromptService) Disable(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Disable(id)
}

func (s *PromptService) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Reorder(ids)
}
