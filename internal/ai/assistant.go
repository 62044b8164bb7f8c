package ai

import (
	"context"

	"github.com/spigell/skillmatch/internal/portal"
)

type FitAssessment struct {
	Fit     bool
	Score   float64
	Reason  string
	Message string
	Raw     string
}

// Reviewer gives a second opinion on a scored application.
type Reviewer interface {
	Evaluate(ctx context.Context, job *portal.Job, app *portal.Application) (*FitAssessment, error)
}

// ToPortal converts an assessment into the form stored on applications.
func (a *FitAssessment) ToPortal() *portal.AIAssessment {
	if a == nil {
		return nil
	}
	return &portal.AIAssessment{
		Fit:     a.Fit,
		Score:   a.Score,
		Reason:  a.Reason,
		Message: a.Message,
		Raw:     a.Raw,
	}
}
