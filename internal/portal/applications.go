package portal

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

const (
	ApplicationIDField     = "ID"
	CandidateIDField       = "CandidateID"
	ApplicationStatusField = "Status"

	ExcludeActorUser = "user"
	ExcludeActorAI   = "ai"
)

type Applications struct {
	Items []*Application
}

type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	ID         string
	JobID      string
	Name       string
	Actor      string
	Reason     string `json:",omitempty"`
	ExcludedAt time.Time
}

func (a *Applications) Len() int {
	return len(a.Items)
}

func (a *Applications) FindByCandidateID(id string) *Application {
	for _, app := range a.Items {
		if app.Candidate != nil && app.Candidate.ID == id {
			return app
		}
	}
	return nil
}

// SortByScore orders applications by score, highest first; ties by candidate id.
func (a *Applications) SortByScore() {
	sort.SliceStable(a.Items, func(i, j int) bool {
		if a.Items[i].Score != a.Items[j].Score {
			return a.Items[i].Score > a.Items[j].Score
		}
		return a.Items[i].candidateID() < a.Items[j].candidateID()
	})
}

func (app *Application) candidateID() string {
	if app.Candidate == nil {
		return ""
	}
	return app.Candidate.ID
}

func (app *Application) GetStringField(name string) string {
	switch name {
	case ApplicationIDField:
		return app.ID
	case CandidateIDField:
		return app.candidateID()
	case ApplicationStatusField:
		return app.Status
	default:
		return ""
	}
}

// Exclude removes every application whose field equals one of targets and
// returns the removed candidate ids. Order is preserved.
func (a *Applications) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}

	var excluded []string
	kept := a.Items[:0]
	for _, app := range a.Items {
		if _, ok := set[app.GetStringField(name)]; ok {
			excluded = append(excluded, app.candidateID())
			continue
		}
		kept = append(kept, app)
	}
	a.Items = kept
	return excluded
}

// ExcludeBelow removes applications scoring under minimum and returns their
// candidate ids.
func (a *Applications) ExcludeBelow(minimum int) []string {
	var excluded []string
	kept := a.Items[:0]
	for _, app := range a.Items {
		if app.Score < minimum {
			excluded = append(excluded, app.candidateID())
			continue
		}
		kept = append(kept, app)
	}
	a.Items = kept
	return excluded
}

// ReportByStatus groups applications by status.
func (a *Applications) ReportByStatus() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, app := range a.Items {
		entry := map[string]string{
			"candidate": app.candidateID(),
			"score":     strconv.Itoa(app.Score),
		}
		if app.Candidate != nil {
			entry["name"] = app.Candidate.Name
			entry["skills"] = app.Candidate.Skills
		}
		if app.Result != nil {
			entry["coverage"] = fmt.Sprintf("%.1f%%", app.Result.CoveragePercentage)
		}
		if app.AI != nil {
			entry["ai_fit"] = strconv.FormatBool(app.AI.Fit)
			entry["ai_score"] = fmt.Sprintf("%.2f", app.AI.Score)
			if app.AI.Reason != "" {
				entry["ai_reason"] = app.AI.Reason
			}
		}
		report[app.Status] = append(report[app.Status], entry)
	}
	return report
}

func (a *Applications) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "applications_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (a *Applications) ToExcluded(actor, reason string) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, app := range a.Items {
		item := &ExcludedCandidate{
			ID:         app.candidateID(),
			JobID:      app.JobID,
			Actor:      actor,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		}
		if app.Candidate != nil {
			item.Name = app.Candidate.Name
		}
		excluded.Items = append(excluded.Items, item)
	}
	return excluded
}

// GetExcludedCandidatesFromFile reads an exclude file. A missing or empty file
// yields an empty list.
func GetExcludedCandidatesFromFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ExcludedCandidates{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	e.Items = append(e.Items, s.Items...)
}

// CandidatesIDs returns the excluded candidate ids for jobID. An entry without
// a job id excludes the candidate from every job.
func (e *ExcludedCandidates) CandidatesIDs(jobID string) []string {
	ids := make([]string, 0, len(e.Items))
	for _, c := range e.Items {
		if c.JobID == "" || c.JobID == jobID {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
