// Package portal holds the job portal records that consume compatibility
// scores: job postings, candidates and their applications.
package portal

import (
	"time"

	"github.com/spigell/skillmatch/internal/matcher"
)

// Application statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type Job struct {
	ID      string `json:"id" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Company string `json:"company,omitempty"`
	// Skills is the free-text list of required skills.
	Skills string `json:"skills"`
}

type Candidate struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Skills string `json:"skills"`
}

// AIAssessment is the optional second opinion attached during ranking.
type AIAssessment struct {
	Fit     bool    `json:"fit"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	Raw     string  `json:"raw,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type Application struct {
	ID        string          `json:"id,omitempty"`
	JobID     string          `json:"job_id"`
	Candidate *Candidate      `json:"candidate"`
	Score     int             `json:"compatibility_score"`
	Status    string          `json:"status"`
	Result    *matcher.Result `json:"details,omitempty"`
	AI        *AIAssessment   `json:"ai,omitempty"`
	AppliedAt time.Time       `json:"applied_at"`
}

// SuggestStatus maps a score to a review status: accepted at or above accept,
// rejected below reject, pending otherwise.
func SuggestStatus(score, accept, reject int) string {
	switch {
	case score >= accept:
		return StatusAccepted
	case score < reject:
		return StatusRejected
	default:
		return StatusPending
	}
}

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}
