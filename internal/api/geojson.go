package api

import (
	"github.com/waterwatch/go-water-watch/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toGeoJSON(areas []models.ProblemArea) FeatureCollection {
	features := make([]Feature, 0, len(areas))

	for _, a := range areas {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{a.Longitude, a.Latitude},
			},
			Properties: map[string]any{
				"id":             a.ID,
				"title":          a.Title,
				"description":    a.Description,
				"type":           string(a.Type),
				"severity":       string(a.Severity),
				"report_count":   a.ReportCount,
				"verified_count": a.VerifiedCount,
				"radius":         a.Radius,
				"is_verified":    a.IsVerified,
				"last_updated":   a.LastUpdated,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
