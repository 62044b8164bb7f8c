package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/portal"
	"github.com/spigell/skillmatch/internal/utils"
)

const (
	defaultMaxLogLength     = 200
	maxUserInstructionRunes = 600
	systemInstruction       = "You review job applications and answer only with JSON matching the requested schema."
)

//go:embed prompt.md
var promptTemplate string

// ContentGenerator sends one prompt to a model and returns its text answer.
// *Generator implements it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// PromptOverrides are optional reviewer preferences rendered into the prompt.
type PromptOverrides struct {
	ExtraCriteria     string
	DealBreakers      string
	CustomKeywords    string
	Tone              string
	RegionConstraints string
	UserInstructions  string
}

// Reviewer asks Gemini for a second opinion on scored applications.
type Reviewer struct {
	generator ContentGenerator
	minScore  float64
	maxLogLen int
	overrides PromptOverrides
	logger    *zap.Logger
}

var (
	_ ai.Reviewer      = (*Reviewer)(nil)
	_ ContentGenerator = (*Generator)(nil)
)

func NewReviewer(generator ContentGenerator, minScore float64, maxLogLength int, log *zap.Logger) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Reviewer{
		generator: generator,
		minScore:  minScore,
		maxLogLen: maxLogLength,
		logger:    logger.WithCommonFields(log, "gemini", generator.Model()),
	}
}

func (r *Reviewer) SetPromptOverrides(o PromptOverrides) {
	r.overrides = o
}

// Evaluate sends the job and the scored application to Gemini. An answer
// scoring under the minimum fit score is never a fit.
func (r *Reviewer) Evaluate(ctx context.Context, job *portal.Job, app *portal.Application) (*ai.FitAssessment, error) {
	if job == nil {
		return nil, errors.New("job is required")
	}
	if app == nil || app.Candidate == nil {
		return nil, errors.New("application with candidate is required")
	}

	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	appJSON, err := json.MarshalIndent(applicationPayload(app), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal application payload: %w", err)
	}

	prompt := buildPrompt(string(jobJSON), string(appJSON), r.overrides)
	fields := logger.ScoreFields(job.ID, app.Candidate.ID, app.Score)

	r.logger.Debug("gemini generate content request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)...)

	raw, err := r.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini generate content response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)...)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if r.minScore > 0 && assessment.Score < r.minScore {
		r.logger.Debug("set fit to false by score threshold", append(fields,
			zap.Float64("ai_score", assessment.Score),
			zap.Float64("threshold", r.minScore),
		)...)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func applicationPayload(app *portal.Application) map[string]any {
	payload := map[string]any{
		"candidate":           app.Candidate.Name,
		"skills":              app.Candidate.Skills,
		"compatibility_score": app.Score,
	}
	if res := app.Result; res != nil {
		payload["matched"] = res.Matched
		payload["semantic_matches"] = res.SemanticMatches
		payload["missing"] = res.Missing
		payload["coverage_percentage"] = math.Round(res.CoveragePercentage*100) / 100
	}
	return payload
}

func buildPrompt(jobJSON, appJSON string, o PromptOverrides) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job:\n{{JOB_JSON}}\n\nApplication:\n{{APPLICATION_JSON}}\n\nJSON Response:"
	}

	return strings.NewReplacer(
		"{{EXTRA_CRITERIA}}", singleLine(o.ExtraCriteria, "none"),
		"{{DEAL_BREAKERS}}", singleLine(o.DealBreakers, "none"),
		"{{CUSTOM_KEYWORDS}}", singleLine(o.CustomKeywords, "none"),
		"{{TONE}}", singleLine(o.Tone, "Friendly"),
		"{{REGION_CONSTRAINTS}}", singleLine(o.RegionConstraints, "none"),
		"{{USER_INSTRUCTIONS}}", userInstructions(o.UserInstructions),
		"{{JOB_JSON}}", jobJSON,
		"{{APPLICATION_JSON}}", appJSON,
	).Replace(template)
}

// neutralize keeps user text from opening its own prompt sections.
var neutralize = strings.NewReplacer("[", "(", "]", ")", "{{", "(", "}}", ")")

func singleLine(s, fallback string) string {
	s = strings.Join(strings.Fields(neutralize.Replace(s)), " ")
	if s == "" {
		return fallback
	}
	return s
}

func userInstructions(s string) string {
	var lines []string
	budget := maxUserInstructionRunes
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(neutralize.Replace(line)), " ")
		if line == "" || budget <= 0 {
			continue
		}
		if runes := []rune(line); len(runes) > budget {
			line = string(runes[:budget])
		}
		budget -= utf8.RuneCountInString(line)
		lines = append(lines, "  - "+line)
	}

	if len(lines) == 0 {
		return "  - none"
	}
	return strings.Join(lines, "\n")
}

type response struct {
	Fit     bool    `mapstructure:"fit"`
	Score   float64 `mapstructure:"score"`
	Reason  string  `mapstructure:"reason"`
	Message string  `mapstructure:"message"`
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var resp response
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &resp,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	if math.IsNaN(resp.Score) || math.IsInf(resp.Score, 0) {
		resp.Score = 0
	}

	return &ai.FitAssessment{
		Fit:     resp.Fit,
		Score:   resp.Score,
		Reason:  strings.TrimSpace(resp.Reason),
		Message: strings.TrimSpace(resp.Message),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
