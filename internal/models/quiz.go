package models

// ScoreQuiz counts how many selected answers match the correct option.
// Answers maps question index to the selected option index. Missing or
// out-of-range selections score zero for that question, so the result is
// always in [0, len(quiz)].
func ScoreQuiz(quiz []QuizQuestion, answers map[int]int) int {
	score := 0
	for i, q := range quiz {
		selected, ok := answers[i]
		if !ok {
			continue
		}
		if selected < 0 || selected >= len(q.Options) {
			continue
		}
		if selected == q.CorrectAnswer {
			score++
		}
	}
	return score
}
