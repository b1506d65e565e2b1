// Package aggregate clusters raw water reports into ProblemArea records.
//
// Clustering is fixed-grid quantization: each report maps to a bucket by
// rounding its coordinates to 3 decimal places (roughly a 110 m cell). Two
// reports merge iff their rounded coordinates match exactly; physically
// close reports on opposite sides of a cell boundary never merge. That is
// the documented behavior, not a distance-threshold algorithm.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/waterwatch/go-water-watch/internal/models"
	"github.com/waterwatch/go-water-watch/internal/repository"
	"github.com/waterwatch/go-water-watch/internal/stream"
)

const (
	baseRadius   = 200.0 // meters, seed value for a one-report area
	radiusStep   = 50.0  // added per report past the first
	maxRadius    = 1000.0
	areaIDPrefix = "area_"
)

// BucketKey derives the clustering key for a coordinate pair.
func BucketKey(lat, lng float64) string {
	return fmt.Sprintf("%.3f_%.3f", lat, lng)
}

// AreaID derives a ProblemArea id from a report location.
func AreaID(lat, lng float64) string {
	return areaIDPrefix + BucketKey(lat, lng)
}

// Build computes a fresh ProblemArea set from the full report slice,
// processing reports in input order. The first report in a bucket seeds the
// area's title, description, type, severity and coordinates; later reports
// only grow the counters and radius. IsVerified is always false here; the
// authority flag is merged back in by Merge.
func Build(reports []models.Report, now time.Time) []models.ProblemArea {
	var areas []models.ProblemArea
	index := make(map[string]int)

	for _, r := range reports {
		key := BucketKey(r.Location.Latitude, r.Location.Longitude)

		i, seen := index[key]
		if !seen {
			area := models.ProblemArea{
				ID:          areaIDPrefix + key,
				Latitude:    r.Location.Latitude,
				Longitude:   r.Location.Longitude,
				Title:       r.Title,
				Description: r.Description,
				Type:        r.Type,
				Severity:    r.Severity,
				ReportCount: 1,
				Radius:      baseRadius,
				LastUpdated: now,
				Reports:     []string{r.ID},
			}
			if r.Status == models.ReportStatusVerified {
				area.VerifiedCount = 1
			}
			index[key] = len(areas)
			areas = append(areas, area)
			continue
		}

		area := &areas[i]
		area.ReportCount++
		area.Reports = append(area.Reports, r.ID)
		if r.Status == models.ReportStatusVerified {
			area.VerifiedCount++
		}
		area.Radius = min(baseRadius+float64(area.ReportCount)*radiusStep, maxRadius)
	}

	return areas
}

// Merge carries the authority IsVerified flag forward from the previously
// persisted area set into a freshly built one. The build starts from raw
// reports only, so without this step every rerun would silently un-verify
// every area.
func Merge(previous, fresh []models.ProblemArea) []models.ProblemArea {
	verified := make(map[string]bool, len(previous))
	for _, a := range previous {
		if a.IsVerified {
			verified[a.ID] = true
		}
	}

	for i := range fresh {
		if verified[fresh[i].ID] {
			fresh[i].IsVerified = true
		}
	}

	return fresh
}

// Service rebuilds the persisted ProblemArea collection from the persisted
// report collection.
type Service struct {
	reports repository.ReportRepository
	areas   repository.AreaRepository
	events  *stream.Broadcaster
}

func NewService(reports repository.ReportRepository, areas repository.AreaRepository, events *stream.Broadcaster) *Service {
	return &Service{
		reports: reports,
		areas:   areas,
		events:  events,
	}
}

// Recompute runs one full aggregation pass: load all reports, build fresh
// areas, merge persisted authority flags, persist the result. The whole
// collection is replaced; nothing is patched incrementally.
func (s *Service) Recompute(ctx context.Context) ([]models.ProblemArea, error) {
	reports, err := s.reports.Reports(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading reports: %w", err)
	}

	previous, err := s.areas.Areas(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading previous areas: %w", err)
	}

	now := time.Now().UTC()
	areas := Merge(previous, Build(reports, now))

	if err := s.areas.SaveAreas(ctx, areas); err != nil {
		return nil, fmt.Errorf("error saving areas: %w", err)
	}

	if s.events != nil {
		s.events.Broadcast(stream.Update{Areas: areas, At: now})
	}

	slog.Debug("aggregation pass complete", "reports", len(reports), "areas", len(areas))
	return areas, nil
}
