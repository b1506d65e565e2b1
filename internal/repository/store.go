package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/waterwatch/go-water-watch/internal/docstore"
	"github.com/waterwatch/go-water-watch/internal/models"
)

// Collection keys in the document store.
const (
	keyReports       = "waterReports"
	keyAreas         = "problemAreas"
	keyVerifications = "verifications"
	keyStats         = "userStats"
	keyNotifications = "notifications"
	keyAssessments   = "assessmentHistory"
	keyRedemptions   = "redemptions"
)

// DocStore is the slice of docstore.SQLiteStore the repositories need.
type DocStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store implements every collection repository over one document store.
type Store struct {
	docs DocStore
}

func NewStore(docs DocStore) *Store {
	return &Store{docs: docs}
}

func load[T any](ctx context.Context, docs DocStore, key string) (T, error) {
	var out T
	data, err := docs.Get(ctx, key)
	if errors.Is(err, docstore.ErrNotFound) {
		return out, nil // absent collection reads as empty
	}
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("error decoding collection %q: %w", key, err)
	}
	return out, nil
}

func save[T any](ctx context.Context, docs DocStore, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding collection %q: %w", key, err)
	}
	return docs.Put(ctx, key, data)
}

func (s *Store) Reports(ctx context.Context) ([]models.Report, error) {
	return load[[]models.Report](ctx, s.docs, keyReports)
}

func (s *Store) SaveReports(ctx context.Context, reports []models.Report) error {
	return save(ctx, s.docs, keyReports, reports)
}

func (s *Store) Areas(ctx context.Context) ([]models.ProblemArea, error) {
	return load[[]models.ProblemArea](ctx, s.docs, keyAreas)
}

func (s *Store) SaveAreas(ctx context.Context, areas []models.ProblemArea) error {
	return save(ctx, s.docs, keyAreas, areas)
}

func (s *Store) Verifications(ctx context.Context) ([]models.AuthorityVerification, error) {
	return load[[]models.AuthorityVerification](ctx, s.docs, keyVerifications)
}

func (s *Store) AppendVerification(ctx context.Context, v models.AuthorityVerification) error {
	vs, err := s.Verifications(ctx)
	if err != nil {
		return err
	}
	return save(ctx, s.docs, keyVerifications, append(vs, v))
}

func (s *Store) Stats(ctx context.Context) (map[string]models.UserStats, error) {
	stats, err := load[map[string]models.UserStats](ctx, s.docs, keyStats)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = make(map[string]models.UserStats)
	}
	return stats, nil
}

func (s *Store) SaveStats(ctx context.Context, stats map[string]models.UserStats) error {
	return save(ctx, s.docs, keyStats, stats)
}

func (s *Store) Notifications(ctx context.Context) ([]models.Notification, error) {
	return load[[]models.Notification](ctx, s.docs, keyNotifications)
}

func (s *Store) AppendNotification(ctx context.Context, n models.Notification, limit int) error {
	ns, err := s.Notifications(ctx)
	if err != nil {
		return err
	}
	ns = append([]models.Notification{n}, ns...)
	if len(ns) > limit {
		ns = ns[:limit]
	}
	return save(ctx, s.docs, keyNotifications, ns)
}

func (s *Store) SaveNotifications(ctx context.Context, ns []models.Notification) error {
	return save(ctx, s.docs, keyNotifications, ns)
}

func (s *Store) Assessments(ctx context.Context) ([]models.Assessment, error) {
	return load[[]models.Assessment](ctx, s.docs, keyAssessments)
}

func (s *Store) AppendAssessment(ctx context.Context, a models.Assessment, limit int) error {
	as, err := s.Assessments(ctx)
	if err != nil {
		return err
	}
	as = append([]models.Assessment{a}, as...)
	if len(as) > limit {
		as = as[:limit]
	}
	return save(ctx, s.docs, keyAssessments, as)
}

func (s *Store) Redemptions(ctx context.Context) ([]models.Redemption, error) {
	return load[[]models.Redemption](ctx, s.docs, keyRedemptions)
}

func (s *Store) AppendRedemption(ctx context.Context, r models.Redemption) error {
	rs, err := s.Redemptions(ctx)
	if err != nil {
		return err
	}
	return save(ctx, s.docs, keyRedemptions, append(rs, r))
}
