package models

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ConditionMatch is one candidate disease with its match score in [0,1].
type ConditionMatch struct {
	DiseaseID  string  `json:"diseaseId"`
	Name       string  `json:"name"`
	MatchScore float64 `json:"matchScore"`
}

// Assessment is the structured output of a symptom check, produced either by
// the rule-based matcher or by the remote assessment service.
type Assessment struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId,omitempty"`
	Symptoms        []string         `json:"symptoms"`
	Conditions      []ConditionMatch `json:"conditions"`
	RiskLevel       RiskLevel        `json:"riskLevel"`
	Recommendations []string         `json:"recommendations"`
	Source          string           `json:"source"` // "rules" or "remote"
	Timestamp       time.Time        `json:"timestamp"`
}
