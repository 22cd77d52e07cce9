package service

import "englishku_backend/internals/features/ai/chat/model"

const (
	coachSystem = "You are a friendly and expert IELTS trainer helping students improve speaking, writing, reading, and listening skills. Respond like a real IELTS coach with clear, actionable feedback."

	interviewSystem = "You are a professional interviewer helping an English learner rehearse. Ask one question at a time, keep the tone realistic for the interview type the learner picked, and after each answer give one short tip on their English before the next question."

	chatGreeting      = "Hello! How can I help you today?"
	interviewGreeting = "Hello, I am your interview assistant. What would you like to practice?\n1. Job Interview\n2. Academic Interview\n3. General Interview"
)

func systemPrompt(mode string) string {
	if mode == model.ModeInterview {
		return interviewSystem
	}
	return coachSystem
}

func greeting(mode string) string {
	if mode == model.ModeInterview {
		return interviewGreeting
	}
	return chatGreeting
}
