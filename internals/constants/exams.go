package constants

// Exam section types, in final-exam order.
const (
	SectionReading   = "reading"
	SectionWriting   = "writing"
	SectionSpeaking  = "speaking"
	SectionListening = "listening"
)

var SectionOrder = []string{SectionReading, SectionWriting, SectionSpeaking, SectionListening}

const (
	ExamKindPractice = "practice"
	ExamKindFinal    = "final"
	ExamKindChapter  = "chapter"
)

const (
	SectionMaxScore      = 10
	FinalExamPassMark    = 24
	FreeResponseFallback = 5
	FinalRedirectSeconds = 5
	// PracticePassRatio applies to objective practice sets.
	PracticePassRatio = 0.5
)

func IsSection(t string) bool {
	for _, s := range SectionOrder {
		if s == t {
			return true
		}
	}
	return false
}
