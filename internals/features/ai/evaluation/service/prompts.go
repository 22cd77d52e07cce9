package service

import "fmt"

const evaluatorSystem = "You are a strict but fair IELTS examiner. Reply with the requested JSON object only."

func writingPrompt(text string) string {
	return fmt.Sprintf(`Evaluate this English writing answer. Return only PASS or FAIL based on grammar, coherence, and minimum word count (over 30 words).
Put PASS or FAIL in "verdict", a band from 0 to 10 in "score" and one or two sentences of advice in "feedback".

Answer:
%s`, text)
}

func speakingPrompt(transcript, topic string) string {
	if topic == "" {
		topic = "any everyday topic"
	}
	return fmt.Sprintf(`Evaluate this transcribed English speaking answer on the topic "%s".
PASS only if it has at least 50 words, stays on topic and has a clear structure (opening, details, conclusion).
Put PASS or FAIL in "verdict", a band from 0 to 10 in "score" and short advice in "feedback".

Transcript:
%s`, topic, transcript)
}

func finalPrompt(section, question, answer string) string {
	return fmt.Sprintf(`Evaluate the following IELTS %s answer.
Question: %s
Answer: %s
Rate it out of 10. Put the rating in "score" (for example 7), PASS in "verdict" when the rating is 5 or more, and give brief "feedback".`, section, question, answer)
}
