package symptoms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/waterwatch/go-water-watch/internal/models"
)

// Assessor produces an assessment for a symptom set. The remote service is
// one implementation; Evaluate is the deterministic local one.
type Assessor interface {
	Assess(ctx context.Context, symptoms []string) (models.Assessment, error)
}

// RemoteAssessor calls the external assessment service. Any failure is
// surfaced to the caller, which falls back to the rule-based path.
type RemoteAssessor struct {
	url    string
	client *http.Client
}

func NewRemoteAssessor(url string, timeout time.Duration) *RemoteAssessor {
	return &RemoteAssessor{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type remoteRequest struct {
	Symptoms []string `json:"symptoms"`
}

func (r *RemoteAssessor) Assess(ctx context.Context, symptoms []string) (models.Assessment, error) {
	body, err := json.Marshal(remoteRequest{Symptoms: symptoms})
	if err != nil {
		return models.Assessment{}, fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return models.Assessment{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return models.Assessment{}, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Assessment{}, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var out models.Assessment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Assessment{}, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	out.Symptoms = symptoms
	out.Source = "remote"
	return out, nil
}
