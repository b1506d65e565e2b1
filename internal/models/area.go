package models

import "time"

// ProblemArea is a derived aggregate over reports sharing a spatial bucket.
// Title, description, type and severity come from the first report seen in
// the bucket and are not recomputed as reports accumulate. IsVerified is an
// authority-level flag, distinct from member report verification, and is
// monotonic: once set it survives aggregation reruns.
//
// Invariants: ReportCount == len(Reports); VerifiedCount <= ReportCount;
// Radius is a function of ReportCount alone.
type ProblemArea struct {
	ID            string     `json:"id"` // derived from the bucket key
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Type          ReportType `json:"type"`
	Severity      Severity   `json:"severity"`
	ReportCount   int        `json:"reportCount"`
	VerifiedCount int        `json:"verifiedCount"`
	Radius        float64    `json:"radius"` // meters
	IsVerified    bool       `json:"isVerified"`
	LastUpdated   time.Time  `json:"lastUpdated"`
	Reports       []string   `json:"reports"` // member report ids, insertion order
}

// AuthorityVerification is an append-only audit record of a successful
// verification. The presented secret is stored verbatim; see DESIGN.md for
// why that is a documented weakness of the trust model.
type AuthorityVerification struct {
	AreaID       string    `json:"areaId"`
	SecretKey    string    `json:"secretKey"`
	OfficialName string    `json:"officialName"`
	Department   string    `json:"department"`
	Timestamp    time.Time `json:"timestamp"`
}
