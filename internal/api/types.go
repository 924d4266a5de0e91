package api

import "resumerank/internal/ingest"

// MatchResponse is one ranked candidate.
type MatchResponse struct {
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	Percentage string  `json:"percentage"`
	Summary    string  `json:"summary"`
}

// RankResponse is returned by both ranking endpoints.
type RankResponse struct {
	RequestID     string           `json:"request_id"`
	Job           string           `json:"job"`
	Results       []MatchResponse  `json:"results"`
	Skipped       []ingest.Skipped `json:"skipped,omitempty"`
	SnapshotError string           `json:"snapshot_error,omitempty"`
}

// TextCandidate is a candidate supplied as plain text.
type TextCandidate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TextRankRequest is the body of POST /rank/text. A null reference means no
// job description was supplied.
type TextRankRequest struct {
	Reference   *string         `json:"reference"`
	ReferenceID string          `json:"reference_id"`
	Candidates  []TextCandidate `json:"candidates"`
}
