package service

const (
	StreakTarget  = 7
	LessonsTarget = 10
)

type Achievement struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
	Target   int    `json:"target"`
	Unlocked bool   `json:"unlocked"`
}

// Achievements derives the badge list; nothing is stored.
func Achievements(streak, lessonsCompleted int) []Achievement {
	return []Achievement{
		badge("streak-7", "🔥 7 Day Streak", streak, StreakTarget),
		badge("lessons-10", "📘 Quick Learner", lessonsCompleted, LessonsTarget),
	}
}

func badge(id, title string, value, target int) Achievement {
	p := value
	if p < 0 {
		p = 0
	}
	if p > target {
		p = target
	}
	return Achievement{ID: id, Title: title, Progress: p, Target: target, Unlocked: p >= target}
}

type DailyGoal struct {
	Goal      int  `json:"goal"`
	Completed int  `json:"completed"`
	Met       bool `json:"met"`
	Percent   int  `json:"percent"`
}

// Goal compares lessons finished today against the user's goal. A goal
// below one falls back to defaultGoal.
func Goal(completedToday, goal, defaultGoal int) DailyGoal {
	if goal < 1 {
		goal = defaultGoal
	}
	if completedToday < 0 {
		completedToday = 0
	}
	pct := completedToday * 100 / goal
	if pct > 100 {
		pct = 100
	}
	return DailyGoal{Goal: goal, Completed: completedToday, Met: completedToday >= goal, Percent: pct}
}
