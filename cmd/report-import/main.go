// Command report-import bulk-loads water reports from a JSON file into a
// running server by posting them through the public API. Useful for seeding
// demo data or replaying reports exported from another deployment.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/waterwatch/go-water-watch/internal/logging"
	"github.com/waterwatch/go-water-watch/internal/models"
	"github.com/waterwatch/go-water-watch/internal/worker"
)

type importReport struct {
	ReporterID  string            `json:"reporterId"`
	Type        models.ReportType `json:"type"`
	Severity    models.Severity   `json:"severity"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Location    models.Location   `json:"location"`
	Photos      []string          `json:"photos,omitempty"`
}

func main() {
	var (
		file    = flag.String("file", "", "path to a JSON array of reports")
		server  = flag.String("server", "http://localhost:8080", "base URL of the running server")
		workers = flag.Int("workers", 4, "number of concurrent submitters")
	)
	flag.Parse()
	logging.Setup("info")

	if *file == "" {
		logging.Fatalf("-file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		logging.Fatalf("Failed to read %s: %v", *file, err)
	}

	var reports []importReport
	if err := json.Unmarshal(data, &reports); err != nil {
		logging.Fatalf("Failed to parse %s: %v", *file, err)
	}

	slog.Info("importing reports", "count", len(reports), "server", *server, "workers", *workers)

	client := &http.Client{Timeout: 15 * time.Second}
	endpoint := *server + "/api/reports"

	var submitted, failed atomic.Int64

	pool := worker.NewPool(*workers, len(reports), func(ctx context.Context, r *models.Report) error {
		if err := post(ctx, client, endpoint, r); err != nil {
			failed.Add(1)
			slog.Error("report rejected", "title", r.Title, "error", err)
			return err
		}
		submitted.Add(1)
		return nil
	})

	ctx := context.Background()
	pool.Start(ctx)

	for _, in := range reports {
		pool.Submit(&models.Report{
			ReporterID:  in.ReporterID,
			Type:        in.Type,
			Severity:    in.Severity,
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			Photos:      in.Photos,
		})
	}
	pool.Stop()

	slog.Info("import finished", "submitted", submitted.Load(), "failed", failed.Load())
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func post(ctx context.Context, client *http.Client, endpoint string, r *models.Report) error {
	payload, err := json.Marshal(importReport{
		ReporterID:  r.ReporterID,
		Type:        r.Type,
		Severity:    r.Severity,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Photos:      r.Photos,
	})
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
