package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"englishku_backend/internals/features/exams/scoring"
	"englishku_backend/internals/helpers/llm"
)

func newEvaluator(responses ...llm.MockResponse) (*Evaluator, *llm.MockProvider) {
	p := llm.NewMockProvider(responses...)
	return NewEvaluator(&llm.Client{Provider: p, Transcriber: &llm.MockTranscriber{Transcript: "hello there"}}), p
}

func TestEvaluateWritingStructured(t *testing.T) {
	ev, p := newEvaluator(llm.Text(`{"verdict":"PASS","score":7,"feedback":"good linking words"}`))

	got, err := ev.EvaluateWriting(context.Background(), "My favourite place is the library.")
	require.NoError(t, err)
	assert.Equal(t, scoring.VerdictPass, got.Verdict)
	assert.Equal(t, 7, got.Score)

	require.Equal(t, 1, p.CallCount())
	assert.NotNil(t, p.Calls[0].Schema)
	assert.Contains(t, p.Calls[0].Messages[0].Content, "over 30 words")
}

func TestEvaluateFallsBackToText(t *testing.T) {
	ev, _ := newEvaluator(llm.Text("PASS"), llm.Text("not a PASS... FAIL"))

	got, err := ev.EvaluateWriting(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, scoring.VerdictPass, got.Verdict)

	got, err = ev.EvaluateSpeaking(context.Background(), "words", "travel")
	require.NoError(t, err)
	assert.Equal(t, scoring.VerdictFail, got.Verdict)
}

func TestScoreFinal(t *testing.T) {
	ev, p := newEvaluator(llm.Text("Solid answer, 7.5/10"), llm.Text("no idea"))

	score, _, err := ev.ScoreFinal(context.Background(), "writing", "Describe a city", "A long answer")
	require.NoError(t, err)
	assert.Equal(t, 8, score)

	score, _, err = ev.ScoreFinal(context.Background(), "speaking", "Q", "answer")
	require.NoError(t, err)
	assert.Equal(t, 5, score)

	score, _, err = ev.ScoreFinal(context.Background(), "writing", "Q", "   ")
	require.NoError(t, err)
	assert.Equal(t, 0, score)
	assert.Equal(t, 2, p.CallCount(), "blank answers never reach the model")
}

func TestEvaluatorErrors(t *testing.T) {
	disabled := NewEvaluator(nil)
	_, err := disabled.EvaluateWriting(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = disabled.Transcribe(context.Background(), strings.NewReader("a"), "a.webm")
	assert.ErrorIs(t, err, ErrDisabled)

	ev, _ := newEvaluator(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	_, err = ev.EvaluateWriting(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ev.EvaluateWriting(context.Background(), "some text")
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
}

func TestTranscribe(t *testing.T) {
	ev, _ := newEvaluator()
	text, err := ev.Transcribe(context.Background(), strings.NewReader("audio-bytes"), "a.webm")
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}
