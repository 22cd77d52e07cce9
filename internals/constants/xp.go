package constants

// XP source labels. A label is granted at most once per calendar day.
const (
	XPLabelDaily       = "daily"
	XPLabelLesson      = "lesson"
	XPLabelReading     = "reading"
	XPLabelWriting     = "writing"
	XPLabelSpeaking    = "speaking"
	XPLabelListening   = "listening"
	XPLabelChat        = "chat"
	XPLabelInterview   = "interview"
	XPLabelChapterExam = "chapter-exam"
	XPLabelFinalExam   = "final-exam"
)

// XPAmounts is the server-owned price list; clients only name the label.
var XPAmounts = map[string]int{
	XPLabelDaily:       10,
	XPLabelLesson:      25,
	XPLabelReading:     15,
	XPLabelWriting:     15,
	XPLabelSpeaking:    15,
	XPLabelListening:   15,
	XPLabelChat:        10,
	XPLabelInterview:   10,
	XPLabelChapterExam: 50,
	XPLabelFinalExam:   100,
}

// XPAmount returns the amount for label and whether the label is known.
func XPAmount(label string) (int, bool) {
	n, ok := XPAmounts[label]
	return n, ok
}

const (
	// DailyMinutesGoal is the target shown on the "today" card.
	DailyMinutesGoal = 30
	// DefaultDailyLessonGoal is the lessons-per-day goal for new users.
	DefaultDailyLessonGoal = 5
	// MaxMinutesPerTick caps a single usage-minutes report.
	MaxMinutesPerTick = 60
)

// ClientGrantable are the labels a client may claim directly through the
// grants endpoint. Exam, lesson and login XP are only granted by the server
// flows that verify them.
var ClientGrantable = map[string]bool{
	XPLabelReading:   true,
	XPLabelWriting:   true,
	XPLabelSpeaking:  true,
	XPLabelListening: true,
	XPLabelChat:      true,
	XPLabelInterview: true,
}
