package models

import "time"

type ReportType string

const (
	ReportTypeContamination  ReportType = "contamination"
	ReportTypeShortage       ReportType = "shortage"
	ReportTypeInfrastructure ReportType = "infrastructure"
	ReportTypeQuality        ReportType = "quality"
	ReportTypeOther          ReportType = "other"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusVerified ReportStatus = "verified"
	ReportStatusResolved ReportStatus = "resolved"
	ReportStatusRejected ReportStatus = "rejected"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Report is one raw user submission. Core fields are immutable after
// creation; status and vote counts mutate afterwards. Reports are never
// deleted in the normal flow.
type Report struct {
	ID             string       `json:"id"`
	ReporterID     string       `json:"reporterId"`
	Type           ReportType   `json:"type"`
	Severity       Severity     `json:"severity"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Location       Location     `json:"location"`
	Photos         []string     `json:"photos,omitempty"` // opaque references, insertion order
	Timestamp      time.Time    `json:"timestamp"`
	Status         ReportStatus `json:"status"`
	ReporterPoints int          `json:"reporterPoints"`
	Upvotes        int          `json:"upvotes"`
	Downvotes      int          `json:"downvotes"`
}

func ValidReportType(t ReportType) bool {
	switch t {
	case ReportTypeContamination, ReportTypeShortage, ReportTypeInfrastructure, ReportTypeQuality, ReportTypeOther:
		return true
	}
	return false
}

func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
