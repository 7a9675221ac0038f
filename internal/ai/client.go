package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Evaluation is the structured result of screening a candidate against a job.
type Evaluation struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

// Evaluator screens a candidate summary against a job description.
type Evaluator interface {
	Evaluate(ctx context.Context, jobDescription, candidateSummary string) (*Evaluation, error)
}

const screeningPrompt = `You are a technical recruiter screening an application.

### JOB DESCRIPTION:
%s

### CANDIDATE SUMMARY:
%s

### INSTRUCTIONS:
Rate how well the candidate matches the job on a 0-100 scale and explain briefly.
Format the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "score": 0,
    "rationale": "One or two sentences explaining the score"
}`

// Client evaluates candidates with an OpenAI chat model.
type Client struct {
	model  llms.Model
	logger *slog.Logger
}

func NewClient(apiKey, modelName string, logger *slog.Logger) (*Client, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return &Client{model: llm, logger: logger}, nil
}

func (c *Client) Evaluate(ctx context.Context, jobDescription, candidateSummary string) (*Evaluation, error) {
	prompt := fmt.Sprintf(screeningPrompt, jobDescription, candidateSummary)

	resp, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	eval, err := parseEvaluation(resp)
	if err != nil {
		c.logger.Error("unparseable screening response", "error", err, "response", resp)
		return nil, err
	}

	return eval, nil
}

// parseEvaluation tolerates models that wrap JSON in markdown fences despite
// the prompt.
func parseEvaluation(raw string) (*Evaluation, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var eval Evaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return nil, fmt.Errorf("parse evaluation JSON: %w", err)
	}

	if eval.Score < 0 || eval.Score > 100 {
		return nil, fmt.Errorf("evaluation score %d out of range", eval.Score)
	}

	return &eval, nil
}
