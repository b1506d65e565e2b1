// Package verify is the authority trust boundary: a privileged actor marks
// one ProblemArea as officially verified after a shared-secret check.
//
// The allow-list is set membership over a small fixed string set. It is not
// authentication in any cryptographic sense; see DESIGN.md before treating
// this gate as secure.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/waterwatch/go-water-watch/internal/models"
	"github.com/waterwatch/go-water-watch/internal/points"
	"github.com/waterwatch/go-water-watch/internal/repository"
)

// verificationBonus is credited to the area's original reporter when an
// authority confirms the problem.
const verificationBonus = 25

var (
	ErrIncompleteForm    = errors.New("incomplete form")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrAreaNotFound      = errors.New("area not found")
)

type Request struct {
	AreaID       string
	SecretKey    string
	OfficialName string
	Department   string
}

type Result struct {
	AreaID       string
	OfficialName string
	VerifiedAt   time.Time
}

type Gate struct {
	areas   repository.AreaRepository
	reports repository.ReportRepository
	audits  repository.VerificationRepository
	engine  *points.Engine
	allowed map[string]struct{}
}

func NewGate(areas repository.AreaRepository, reports repository.ReportRepository, audits repository.VerificationRepository, engine *points.Engine, allowedKeys []string) *Gate {
	allowed := make(map[string]struct{}, len(allowedKeys))
	for _, k := range allowedKeys {
		allowed[k] = struct{}{}
	}
	return &Gate{
		areas:   areas,
		reports: reports,
		audits:  audits,
		engine:  engine,
		allowed: allowed,
	}
}

// Verify runs the gate. Validation failures (incomplete form, bad
// credential) mutate nothing and return distinct errors so the caller can
// show an actionable message. On success the area is flagged, an audit
// record is appended, and the original reporter receives the bonus.
func (g *Gate) Verify(ctx context.Context, req Request) (Result, error) {
	secret := strings.TrimSpace(req.SecretKey)
	official := strings.TrimSpace(req.OfficialName)
	department := strings.TrimSpace(req.Department)

	if secret == "" || official == "" || department == "" {
		return Result{}, ErrIncompleteForm
	}

	if _, ok := g.allowed[secret]; !ok {
		return Result{}, ErrInvalidCredential
	}

	areas, err := g.areas.Areas(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("error loading areas: %w", err)
	}

	target := -1
	for i := range areas {
		if areas[i].ID == req.AreaID {
			target = i
			break
		}
	}
	if target < 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrAreaNotFound, req.AreaID)
	}

	now := time.Now().UTC()
	areas[target].IsVerified = true
	areas[target].LastUpdated = now

	if err := g.areas.SaveAreas(ctx, areas); err != nil {
		return Result{}, fmt.Errorf("error saving areas: %w", err)
	}

	audit := models.AuthorityVerification{
		AreaID:       req.AreaID,
		SecretKey:    secret, // stored verbatim; known design weakness
		OfficialName: official,
		Department:   department,
		Timestamp:    now,
	}
	if err := g.audits.AppendVerification(ctx, audit); err != nil {
		// The area flag is already persisted; no rollback on a later
		// failure in the same call.
		return Result{}, fmt.Errorf("error appending verification record: %w", err)
	}

	if reporter := g.seedReporter(ctx, areas[target]); reporter != "" {
		if _, err := g.engine.AddPoints(ctx, reporter, verificationBonus); err != nil {
			slog.Error("verification bonus award failed", "area", req.AreaID, "reporter", reporter, "error", err)
		}
	}

	slog.Info("area verified", "area", req.AreaID, "official", official, "department", department)

	return Result{
		AreaID:       req.AreaID,
		OfficialName: official,
		VerifiedAt:   now,
	}, nil
}

// seedReporter resolves the reporter of the area's first member report.
func (g *Gate) seedReporter(ctx context.Context, area models.ProblemArea) string {
	if len(area.Reports) == 0 {
		return ""
	}
	reports, err := g.reports.Reports(ctx)
	if err != nil {
		slog.Error("error loading reports for bonus award", "area", area.ID, "error", err)
		return ""
	}
	for _, r := range reports {
		if r.ID == area.Reports[0] {
			return r.ReporterID
		}
	}
	return ""
}
