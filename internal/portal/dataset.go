package portal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Dataset is the import format for jobs and candidates.
type Dataset struct {
	Jobs       []*Job       `json:"jobs" validate:"dive"`
	Candidates []*Candidate `json:"candidates" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadDataset reads and validates a JSON dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding dataset %q: %w", path, err)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	return &ds, nil
}

// Validate checks required fields and rejects duplicate ids.
func (d *Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}

	jobs := make(map[string]struct{}, len(d.Jobs))
	for _, j := range d.Jobs {
		if _, dup := jobs[j.ID]; dup {
			return fmt.Errorf("invalid dataset: duplicate job id %q", j.ID)
		}
		jobs[j.ID] = struct{}{}
	}

	candidates := make(map[string]struct{}, len(d.Candidates))
	for _, c := range d.Candidates {
		if _, dup := candidates[c.ID]; dup {
			return fmt.Errorf("invalid dataset: duplicate candidate id %q", c.ID)
		}
		candidates[c.ID] = struct{}{}
	}

	return nil
}
