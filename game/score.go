package game

import "math"

type Score struct {
	TotalAnswered   int `json:"totalAnswered"`
	CorrectAnswered int `json:"correctAnswered"`
}

// ApplyAnswer counts one answer. It does not guard against repeat answers
// for the same question; Session does.
func ApplyAnswer(s Score, chosen, answerIndex int) Score {
	s.TotalAnswered++
	if chosen == answerIndex {
		s.CorrectAnswered++
	}
	return s
}

// Percent is the rounded share of correct answers, 0 when nothing was
// answered.
func (s Score) Percent() int {
	if s.TotalAnswered == 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectAnswered) * 100 / float64(s.TotalAnswered)))
}
