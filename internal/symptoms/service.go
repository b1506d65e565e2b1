package symptoms

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/waterwatch/go-water-watch/internal/models"
	"github.com/waterwatch/go-water-watch/internal/repository"
)

// Service runs an assessment (remote when configured, rule-based otherwise)
// and records it in the bounded history collection.
type Service struct {
	remote  Assessor // nil disables the remote path
	history repository.AssessmentRepository
	limit   int
}

func NewService(remote Assessor, history repository.AssessmentRepository, historyLimit int) *Service {
	return &Service{
		remote:  remote,
		history: history,
		limit:   historyLimit,
	}
}

func (s *Service) Assess(ctx context.Context, userID string, selected []string) (models.Assessment, error) {
	var a models.Assessment

	if s.remote != nil {
		remote, err := s.remote.Assess(ctx, selected)
		if err != nil {
			// Remote failure is non-fatal; the deterministic path answers.
			slog.Warn("remote assessment failed, using rule-based fallback", "error", err)
		} else {
			a = remote
		}
	}
	if a.Source == "" {
		a = Evaluate(selected)
	}

	a.ID = uuid.NewString()
	a.UserID = userID
	a.Timestamp = time.Now().UTC()

	if err := s.history.AppendAssessment(ctx, a, s.limit); err != nil {
		// The assessment is already computed; history being unavailable
		// does not invalidate it.
		slog.Error("error appending assessment history", "error", err)
	}

	return a, nil
}

// History returns the bounded assessment history, most recent first.
func (s *Service) History(ctx context.Context) ([]models.Assessment, error) {
	return s.history.Assessments(ctx)
}
