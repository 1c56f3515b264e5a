package workers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
	"github.com/lumenjournal/lumen-progress-engine/internal/core/workers"
)

type fakeEvaluator struct {
	evaluated chan string
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, userID string) (*domain.StreakState, error) {
	f.evaluated <- userID
	return &domain.StreakState{UserID: userID, CurrentStreak: 1}, nil
}

func TestStreakWorker(t *testing.T) {
	t.Run("Success: Enqueued jobs reach the evaluator", func(t *testing.T) {
		evaluator := &fakeEvaluator{evaluated: make(chan string, 1)}
		worker := workers.NewStreakWorker(evaluator, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		worker.Start(ctx)

		worker.Enqueue("u1")

		select {
		case userID := <-evaluator.evaluated:
			assert.Equal(t, "u1", userID)
		case <-time.After(2 * time.Second):
			t.Fatal("job never reached the evaluator")
		}
	})

	t.Run("Success: Enqueue never blocks the caller", func(t *testing.T) {
		// No Start: the queue fills and further jobs must be dropped, not
		// block the reflection write path.
		evaluator := &fakeEvaluator{evaluated: make(chan string, 1)}
		worker := workers.NewStreakWorker(evaluator, zap.NewNop())

		done := make(chan struct{})
		go func() {
			for i := 0; i < 500; i++ {
				worker.Enqueue("u1")
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Enqueue blocked on a full queue")
		}
	})
}
