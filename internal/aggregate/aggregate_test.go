package aggregate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/waterwatch/go-water-watch/internal/models"
)

// mockReports implements repository.ReportRepository for testing
type mockReports struct {
	reports []models.Report
}

func (m *mockReports) Reports(ctx context.Context) ([]models.Report, error) {
	return m.reports, nil
}

func (m *mockReports) SaveReports(ctx context.Context, reports []models.Report) error {
	m.reports = reports
	return nil
}

// mockAreas implements repository.AreaRepository for testing
type mockAreas struct {
	areas []models.ProblemArea
	saves int
}

func (m *mockAreas) Areas(ctx context.Context) ([]models.ProblemArea, error) {
	return m.areas, nil
}

func (m *mockAreas) SaveAreas(ctx context.Context, areas []models.ProblemArea) error {
	m.areas = areas
	m.saves++
	return nil
}

func report(id string, lat, lng float64) models.Report {
	return models.Report{
		ID:        id,
		Type:      models.ReportTypeContamination,
		Severity:  models.SeverityHigh,
		Title:     "Report " + id,
		Location:  models.Location{Latitude: lat, Longitude: lng},
		Timestamp: time.Now(),
		Status:    models.ReportStatusPending,
	}
}

func TestBucketKey_Rounding(t *testing.T) {
	a := BucketKey(28.6139, 77.2090)
	b := BucketKey(28.6140, 77.2091)
	if a != b {
		t.Errorf("expected same bucket for nearby coordinates, got %s vs %s", a, b)
	}
	if a != "28.614_77.209" {
		t.Errorf("unexpected bucket key: %s", a)
	}

	// Neighboring grid cells never merge, however close the points are.
	c := BucketKey(28.6144, 77.2090)
	d := BucketKey(28.6146, 77.2090)
	if c == d {
		t.Error("expected distinct buckets across the cell boundary")
	}
}

func TestBuild_SeedsAreaFromFirstReport(t *testing.T) {
	r := report("r1", 28.6139, 77.2090)
	r.Status = models.ReportStatusVerified

	areas := Build([]models.Report{r}, time.Now())
	if len(areas) != 1 {
		t.Fatalf("expected 1 area, got %d", len(areas))
	}

	a := areas[0]
	if a.ID != "area_28.614_77.209" {
		t.Errorf("unexpected area id: %s", a.ID)
	}
	if a.ReportCount != 1 {
		t.Errorf("expected reportCount 1, got %d", a.ReportCount)
	}
	if a.VerifiedCount != 1 {
		t.Errorf("expected verifiedCount 1 for verified seed, got %d", a.VerifiedCount)
	}
	if a.Radius != 200 {
		t.Errorf("expected seed radius 200, got %f", a.Radius)
	}
	if a.IsVerified {
		t.Error("fresh area must not carry the authority flag")
	}
	// Coordinates stay the first report's exact location, not the cell center.
	if a.Latitude != 28.6139 || a.Longitude != 77.2090 {
		t.Errorf("expected seed coordinates, got %f/%f", a.Latitude, a.Longitude)
	}
}

func TestBuild_FirstReportWinsSeedFields(t *testing.T) {
	first := report("r1", 28.6139, 77.2090)
	first.Severity = models.SeverityCritical
	first.Title = "Sewage in supply line"

	second := report("r2", 28.6140, 77.2091)
	second.Severity = models.SeverityLow
	second.Type = models.ReportTypeShortage
	second.Title = "Low pressure"

	areas := Build([]models.Report{first, second}, time.Now())
	if len(areas) != 1 {
		t.Fatalf("expected 1 area, got %d", len(areas))
	}

	a := areas[0]
	if a.ReportCount != 2 {
		t.Errorf("expected reportCount 2, got %d", a.ReportCount)
	}
	if a.Severity != models.SeverityCritical {
		t.Errorf("expected first-seen severity, got %s", a.Severity)
	}
	if a.Title != "Sewage in supply line" {
		t.Errorf("expected first-seen title, got %s", a.Title)
	}
	if a.Type != models.ReportTypeContamination {
		t.Errorf("expected first-seen type, got %s", a.Type)
	}
	if a.Radius != 300 {
		t.Errorf("expected radius 300 at 2 reports, got %f", a.Radius)
	}
	if len(a.Reports) != 2 || a.Reports[0] != "r1" || a.Reports[1] != "r2" {
		t.Errorf("expected member ids in insertion order, got %v", a.Reports)
	}
}

func TestBuild_RadiusFormulaAndCap(t *testing.T) {
	var reports []models.Report
	for i := 0; i < 20; i++ {
		reports = append(reports, report(fmt.Sprintf("r%d", i), 28.6139, 77.2090))
	}

	prevRadius := 0.0
	for n := 2; n <= 20; n++ {
		areas := Build(reports[:n], time.Now())
		if len(areas) != 1 {
			t.Fatalf("expected 1 area for %d reports, got %d", n, len(areas))
		}
		want := min(200+50*float64(n), 1000)
		if areas[0].Radius != want {
			t.Errorf("n=%d: expected radius %f, got %f", n, want, areas[0].Radius)
		}
		if areas[0].Radius < prevRadius {
			t.Errorf("n=%d: radius decreased from %f to %f", n, prevRadius, areas[0].Radius)
		}
		prevRadius = areas[0].Radius
	}

	// Past 16 reports the cap holds.
	areas := Build(reports, time.Now())
	if areas[0].Radius != 1000 {
		t.Errorf("expected capped radius 1000, got %f", areas[0].Radius)
	}
}

func TestBuild_VerifiedCountBound(t *testing.T) {
	var reports []models.Report
	for i := 0; i < 10; i++ {
		r := report(fmt.Sprintf("r%d", i), 9.0300, 38.7400)
		if i%3 == 0 {
			r.Status = models.ReportStatusVerified
		}
		reports = append(reports, r)
	}

	for _, a := range Build(reports, time.Now()) {
		if a.VerifiedCount > a.ReportCount {
			t.Errorf("area %s: verifiedCount %d exceeds reportCount %d", a.ID, a.VerifiedCount, a.ReportCount)
		}
		if a.ReportCount != len(a.Reports) {
			t.Errorf("area %s: reportCount %d != member count %d", a.ID, a.ReportCount, len(a.Reports))
		}
	}
}

func TestBuild_BucketingDeterministicAcrossOrder(t *testing.T) {
	r1 := report("r1", 28.6139, 77.2090)
	r2 := report("r2", 28.6140, 77.2091)
	r3 := report("r3", 12.9716, 77.5946)

	forward := Build([]models.Report{r1, r2, r3}, time.Now())
	reversed := Build([]models.Report{r3, r2, r1}, time.Now())

	if len(forward) != 2 || len(reversed) != 2 {
		t.Fatalf("expected 2 areas in both orders, got %d and %d", len(forward), len(reversed))
	}

	members := func(areas []models.ProblemArea) map[string]int {
		out := make(map[string]int)
		for _, a := range areas {
			out[a.ID] = a.ReportCount
		}
		return out
	}

	f, r := members(forward), members(reversed)
	for id, count := range f {
		if r[id] != count {
			t.Errorf("area %s: count %d forward vs %d reversed", id, count, r[id])
		}
	}
}

func TestMerge_CarriesVerifiedFlag(t *testing.T) {
	previous := []models.ProblemArea{
		{ID: "area_28.614_77.209", IsVerified: true},
		{ID: "area_12.972_77.595", IsVerified: false},
	}
	fresh := []models.ProblemArea{
		{ID: "area_28.614_77.209", ReportCount: 3},
		{ID: "area_12.972_77.595", ReportCount: 1},
		{ID: "area_9.030_38.740", ReportCount: 1},
	}

	merged := Merge(previous, fresh)

	if !merged[0].IsVerified {
		t.Error("expected verified flag carried over")
	}
	if merged[1].IsVerified || merged[2].IsVerified {
		t.Error("unverified areas must stay unverified")
	}
}

func TestService_Recompute_PreservesVerificationAcrossRuns(t *testing.T) {
	ctx := context.Background()
	reports := &mockReports{reports: []models.Report{report("r1", 28.6139, 77.2090)}}
	areas := &mockAreas{}

	svc := NewService(reports, areas, nil)

	if _, err := svc.Recompute(ctx); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	// Authority verifies the area out of band.
	areas.areas[0].IsVerified = true

	// A new report lands in the same bucket and aggregation reruns.
	reports.reports = append(reports.reports, report("r2", 28.6140, 77.2091))

	got, err := svc.Recompute(ctx)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 area, got %d", len(got))
	}
	if !got[0].IsVerified {
		t.Error("expected isVerified to survive the aggregation rerun")
	}
	if got[0].ReportCount != 2 {
		t.Errorf("expected reportCount 2, got %d", got[0].ReportCount)
	}
	if areas.saves != 2 {
		t.Errorf("expected 2 whole-collection saves, got %d", areas.saves)
	}
}
