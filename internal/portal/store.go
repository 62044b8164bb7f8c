package portal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id      TEXT PRIMARY KEY,
	title   TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	skills  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS candidates (
	id     TEXT PRIMARY KEY,
	name   TEXT NOT NULL,
	email  TEXT NOT NULL DEFAULT '',
	skills TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS applications (
	id                  TEXT PRIMARY KEY,
	job_id              TEXT NOT NULL REFERENCES jobs(id),
	candidate_id        TEXT NOT NULL REFERENCES candidates(id),
	compatibility_score INTEGER NOT NULL,
	status              TEXT NOT NULL DEFAULT 'pending',
	applied_at          TEXT NOT NULL,
	UNIQUE(job_id, candidate_id)
);`

const (
	upsertJob = `
		INSERT INTO jobs (id, title, company, skills) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, company = excluded.company, skills = excluded.skills`
	upsertCandidate = `
		INSERT INTO candidates (id, name, email, skills) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, skills = excluded.skills`
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store persists jobs, candidates and scored applications in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveJob(ctx context.Context, j *Job) error {
	return saveJob(ctx, s.db, j)
}

func saveJob(ctx context.Context, e execer, j *Job) error {
	if _, err := e.ExecContext(ctx, upsertJob, j.ID, j.Title, j.Company, j.Skills); err != nil {
		return fmt.Errorf("store: save job %s: %w", j.ID, err)
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	var j Job
	err := s.db.QueryRowContext(ctx, `SELECT id, title, company, skills FROM jobs WHERE id = ?`, id).
		Scan(&j.ID, &j.Title, &j.Company, &j.Skills)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get job %s: %w", id, err)
	}
	return &j, nil
}

func (s *Store) ListJobs(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, company, skills FROM jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Skills); err != nil {
			return nil, fmt.Errorf("store: scan job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

func (s *Store) SaveCandidate(ctx context.Context, c *Candidate) error {
	return saveCandidate(ctx, s.db, c)
}

func saveCandidate(ctx context.Context, e execer, c *Candidate) error {
	if _, err := e.ExecContext(ctx, upsertCandidate, c.ID, c.Name, c.Email, c.Skills); err != nil {
		return fmt.Errorf("store: save candidate %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) ListCandidates(ctx context.Context) ([]*Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, skills FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Skills); err != nil {
			return nil, fmt.Errorf("store: scan candidate: %w", err)
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

// Import saves every job and candidate of ds in one transaction.
func (s *Store) Import(ctx context.Context, ds *Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, j := range ds.Jobs {
		if err := saveJob(ctx, tx, j); err != nil {
			return err
		}
	}
	for _, c := range ds.Candidates {
		if err := saveCandidate(ctx, tx, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit import: %w", err)
	}
	return nil
}

// SaveApplication upserts the score and status of app. A new id is assigned
// when app has none; an existing row keeps its id.
func (s *Store) SaveApplication(ctx context.Context, app *Application) error {
	if app.Candidate == nil {
		return errors.New("store: application without candidate")
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = StatusPending
	}
	if !ValidStatus(app.Status) {
		return fmt.Errorf("store: application %s/%s: unknown status %q", app.JobID, app.Candidate.ID, app.Status)
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO applications (id, job_id, candidate_id, compatibility_score, status, applied_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id, candidate_id) DO UPDATE SET
			compatibility_score = excluded.compatibility_score,
			status = excluded.status
		RETURNING id`,
		app.ID, app.JobID, app.Candidate.ID, app.Score, app.Status, app.AppliedAt.Format(time.RFC3339),
	).Scan(&app.ID)
	if err != nil {
		return fmt.Errorf("store: save application %s/%s: %w", app.JobID, app.Candidate.ID, err)
	}
	return nil
}

// ListApplications returns the stored applications of jobID, best score first.
func (s *Store) ListApplications(ctx context.Context, jobID string) (*Applications, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.job_id, a.compatibility_score, a.status, a.applied_at,
		       c.id, c.name, c.email, c.skills
		FROM applications a
		JOIN candidates c ON c.id = a.candidate_id
		WHERE a.job_id = ?
		ORDER BY a.compatibility_score DESC, c.id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("store: list applications: %w", err)
	}
	defer rows.Close()

	apps := &Applications{}
	for rows.Next() {
		var (
			app     Application
			c       Candidate
			applied string
		)
		if err := rows.Scan(&app.ID, &app.JobID, &app.Score, &app.Status, &applied,
			&c.ID, &c.Name, &c.Email, &c.Skills); err != nil {
			return nil, fmt.Errorf("store: scan application: %w", err)
		}
		app.AppliedAt, _ = time.Parse(time.RFC3339, applied)
		app.Candidate = &c
		apps.Items = append(apps.Items, &app)
	}
	return apps, rows.Err()
}

// ScoredPair is a stored application joined with both skill lists.
type ScoredPair struct {
	JobID           string
	JobTitle        string
	JobSkills       string
	CandidateID     string
	CandidateName   string
	CandidateSkills string
	StoredScore     int
	Status          string
	AppliedAt       time.Time
}

// ListScoredPairs returns the most recent applications, newest first. A
// non-positive limit returns all of them.
func (s *Store) ListScoredPairs(ctx context.Context, limit int) ([]ScoredPair, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT j.id, j.title, j.skills, c.id, c.name, c.skills,
		       a.compatibility_score, a.status, a.applied_at
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN candidates c ON c.id = a.candidate_id
		ORDER BY a.applied_at DESC, a.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list scored pairs: %w", err)
	}
	defer rows.Close()

	var pairs []ScoredPair
	for rows.Next() {
		var (
			p       ScoredPair
			applied string
		)
		if err := rows.Scan(&p.JobID, &p.JobTitle, &p.JobSkills, &p.CandidateID, &p.CandidateName,
			&p.CandidateSkills, &p.StoredScore, &p.Status, &applied); err != nil {
			return nil, fmt.Errorf("store: scan scored pair: %w", err)
		}
		p.AppliedAt, _ = time.Parse(time.RFC3339, applied)
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
