package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"englishku_backend/internals/constants"
)

const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

// Evaluation is the structured reply requested from the evaluator.
type Evaluation struct {
	Verdict  string `json:"verdict"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// ParseVerdict reads a free-text reply: PASS only when it says PASS and
// never FAIL.
func ParseVerdict(text string) string {
	up := strings.ToUpper(text)
	if strings.Contains(up, VerdictPass) && !strings.Contains(up, VerdictFail) {
		return VerdictPass
	}
	return VerdictFail
}

var tenScale = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10\b`)

// ParseTenScale extracts the first "X/10", rounded and clamped to 0..10.
func ParseTenScale(text string) (int, bool) {
	m := tenScale.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return clamp(int(math.Round(f))), true
}

// ParseEvaluation decodes a structured reply, falling back to text parsing
// of the same content when it is not valid JSON.
func ParseEvaluation(raw []byte) Evaluation {
	var ev Evaluation
	if err := sonic.Unmarshal(raw, &ev); err == nil && (ev.Verdict == VerdictPass || ev.Verdict == VerdictFail) {
		ev.Score = clamp(ev.Score)
		return ev
	}
	text := string(raw)
	ev = Evaluation{Verdict: ParseVerdict(text), Feedback: strings.TrimSpace(text)}
	if score, ok := ParseTenScale(text); ok {
		ev.Score = score
	} else {
		ev.Score = -1
	}
	return ev
}

// FreeResponseScore is the final-exam score for an evaluated answer: the
// evaluator's score when it gave one, else the flat fallback.
func FreeResponseScore(ev Evaluation) int {
	if ev.Score >= 0 {
		return clamp(ev.Score)
	}
	return constants.FreeResponseFallback
}

// WordCount splits on whitespace.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > constants.SectionMaxScore {
		return constants.SectionMaxScore
	}
	return n
}
