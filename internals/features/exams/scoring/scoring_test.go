package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"englishku_backend/internals/features/exams/exams/model"
)

func TestScoreObjective(t *testing.T) {
	q := model.Question{Options: []string{"A", "B", "C"}, CorrectAnswer: 1}
	assert.Equal(t, 10, ScoreObjective(q, "B"))
	assert.Equal(t, 0, ScoreObjective(q, "A"))
	assert.Equal(t, 0, ScoreObjective(q, ""))
	assert.Equal(t, 0, ScoreObjective(model.Question{Options: []string{"A"}, CorrectAnswer: 3}, "A"))
}

func TestScoreObjectiveSet(t *testing.T) {
	qs := []model.Question{
		{Options: []string{"A", "B"}, CorrectAnswer: 0},
		{Options: []string{"A", "B"}, CorrectAnswer: 1},
		{Options: []string{"A", "B"}, CorrectAnswer: 1},
		{Options: []string{"A", "B"}, CorrectAnswer: 0},
	}
	correct, total := ScoreObjectiveSet(qs, []string{"A", "B"})
	assert.Equal(t, 2, correct)
	assert.Equal(t, 4, total)
	assert.True(t, ObjectivePassed(correct, total), "50% passes")
	assert.False(t, ObjectivePassed(1, 4))
	assert.False(t, ObjectivePassed(0, 0))

	assert.Equal(t, 5, SectionScore(2, 4))
	assert.Equal(t, 10, SectionScore(1, 1))
	assert.Equal(t, 0, SectionScore(0, 1))
	assert.Equal(t, 7, SectionScore(2, 3))
}

func TestAggregate(t *testing.T) {
	total, passed := Aggregate(map[string]int{"reading": 10, "writing": 0, "speaking": 10, "listening": 10})
	assert.Equal(t, 30, total)
	assert.True(t, passed)

	total, passed = Aggregate(map[string]int{"reading": 0, "writing": 5, "speaking": 5, "listening": 0})
	assert.Equal(t, 10, total)
	assert.False(t, passed)

	_, passed = Aggregate(map[string]int{"reading": 10, "writing": 4, "speaking": 10, "listening": 0})
	assert.True(t, passed, "24 is the pass mark")
}

func TestParseVerdict(t *testing.T) {
	assert.Equal(t, VerdictPass, ParseVerdict("PASS"))
	assert.Equal(t, VerdictPass, ParseVerdict("Result: pass. Nice work."))
	assert.Equal(t, VerdictFail, ParseVerdict("FAIL"))
	assert.Equal(t, VerdictFail, ParseVerdict("not a PASS... FAIL"))
	assert.Equal(t, VerdictFail, ParseVerdict("I cannot evaluate this"))
}

func TestParseTenScale(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"7.5/10", 8, true},
		{"Score: 6 / 10 overall", 6, true},
		{"I'd give it 12/10", 10, true},
		{"8/100", 0, false},
		{"good effort", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTenScale(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseEvaluation(t *testing.T) {
	ev := ParseEvaluation([]byte(`{"verdict":"PASS","score":8,"feedback":"clear"}`))
	assert.Equal(t, Evaluation{Verdict: "PASS", Score: 8, Feedback: "clear"}, ev)
	assert.Equal(t, 8, FreeResponseScore(ev))

	ev = ParseEvaluation([]byte("Well organised. 7/10. PASS"))
	assert.Equal(t, VerdictPass, ev.Verdict)
	assert.Equal(t, 7, FreeResponseScore(ev))

	ev = ParseEvaluation([]byte("Hard to say."))
	assert.Equal(t, VerdictFail, ev.Verdict)
	assert.Equal(t, 5, FreeResponseScore(ev), "unparseable score falls back to 5")
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 4, WordCount(" one two\nthree\tfour "))
}
