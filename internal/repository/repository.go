package repository

import (
	"context"

	"github.com/waterwatch/go-water-watch/internal/models"
)

// Collection repositories expose whole-collection load/save. Services read
// the full collection, mutate in memory and write the full collection back;
// the underlying document store resolves concurrent cycles last-write-wins.

type ReportRepository interface {
	Reports(ctx context.Context) ([]models.Report, error)
	SaveReports(ctx context.Context, reports []models.Report) error
}

type AreaRepository interface {
	Areas(ctx context.Context) ([]models.ProblemArea, error)
	SaveAreas(ctx context.Context, areas []models.ProblemArea) error
}

type VerificationRepository interface {
	Verifications(ctx context.Context) ([]models.AuthorityVerification, error)
	// AppendVerification adds to the append-only audit log. Records are
	// never mutated or deleted.
	AppendVerification(ctx context.Context, v models.AuthorityVerification) error
}

type StatsRepository interface {
	Stats(ctx context.Context) (map[string]models.UserStats, error)
	SaveStats(ctx context.Context, stats map[string]models.UserStats) error
}

type NotificationRepository interface {
	Notifications(ctx context.Context) ([]models.Notification, error)
	// AppendNotification prepends n and trims the collection to the limit
	// most recent entries.
	AppendNotification(ctx context.Context, n models.Notification, limit int) error
	SaveNotifications(ctx context.Context, ns []models.Notification) error
}

type AssessmentRepository interface {
	Assessments(ctx context.Context) ([]models.Assessment, error)
	AppendAssessment(ctx context.Context, a models.Assessment, limit int) error
}

type RedemptionRepository interface {
	Redemptions(ctx context.Context) ([]models.Redemption, error)
	AppendRedemption(ctx context.Context, r models.Redemption) error
}
