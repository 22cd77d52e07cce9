package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"englishku_backend/internals/features/exams/scoring"
	"englishku_backend/internals/helpers/llm"
)

var (
	ErrDisabled   = errors.New("ai evaluation is not configured")
	ErrEmptyInput = errors.New("nothing to evaluate")
)

var verdictSchema = &llm.Schema{
	Name:        "answer_evaluation",
	Description: "Examiner verdict for a learner answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict":  map[string]any{"type": "string", "enum": []string{scoring.VerdictPass, scoring.VerdictFail}},
			"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 10},
			"feedback": map[string]any{"type": "string"},
		},
		"required":             []string{"verdict", "score", "feedback"},
		"additionalProperties": false,
	},
}

// Evaluator grades free-response answers and transcribes speech. A nil
// client (no API key) makes every call return ErrDisabled.
type Evaluator struct {
	LLM *llm.Client
}

func NewEvaluator(client *llm.Client) *Evaluator {
	return &Evaluator{LLM: client}
}

func (e *Evaluator) Enabled() bool {
	return e != nil && e.LLM != nil && e.LLM.Provider != nil
}

func (e *Evaluator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.LLM.Timeout > 0 {
		return context.WithTimeout(ctx, e.LLM.Timeout)
	}
	return context.WithCancel(ctx)
}

func (e *Evaluator) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if !e.Enabled() || e.LLM.Transcriber == nil {
		return "", ErrDisabled
	}
	if audio == nil {
		return "", ErrEmptyInput
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	text, err := e.LLM.Transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return text, nil
}

func (e *Evaluator) EvaluateWriting(ctx context.Context, text string) (scoring.Evaluation, error) {
	if strings.TrimSpace(text) == "" {
		return scoring.Evaluation{}, ErrEmptyInput
	}
	return e.evaluate(ctx, writingPrompt(text))
}

func (e *Evaluator) EvaluateSpeaking(ctx context.Context, transcript, topic string) (scoring.Evaluation, error) {
	if strings.TrimSpace(transcript) == "" {
		return scoring.Evaluation{}, ErrEmptyInput
	}
	return e.evaluate(ctx, speakingPrompt(transcript, topic))
}

// ScoreFinal rates a final-exam writing or speaking answer on the 0..10
// section scale. An empty answer scores 0 without calling the model.
func (e *Evaluator) ScoreFinal(ctx context.Context, section, question, answer string) (int, scoring.Evaluation, error) {
	if strings.TrimSpace(answer) == "" {
		return 0, scoring.Evaluation{Verdict: scoring.VerdictFail}, nil
	}
	ev, err := e.evaluate(ctx, finalPrompt(section, question, answer))
	if err != nil {
		return 0, ev, err
	}
	return scoring.FreeResponseScore(ev), ev, nil
}

// evaluate asks for the structured verdict first. A reply that fails schema
// validation is parsed as free text instead of being rejected.
func (e *Evaluator) evaluate(ctx context.Context, prompt string) (scoring.Evaluation, error) {
	if !e.Enabled() {
		return scoring.Evaluation{}, ErrDisabled
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	req := llm.UserPrompt(evaluatorSystem, prompt)
	req.Schema = verdictSchema
	req.MaxTokens = 400

	resp, err := e.LLM.Provider.Generate(ctx, req)
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) && len(invalid.Content) > 0 {
			log.Printf("[WARN] evaluator: structured reply rejected, parsing text: %v", invalid.Err)
			return scoring.ParseEvaluation(invalid.Content), nil
		}
		return scoring.Evaluation{}, fmt.Errorf("evaluate: %w", err)
	}
	return scoring.ParseEvaluation(resp.Content), nil
}
