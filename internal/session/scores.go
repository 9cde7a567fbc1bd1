package session

import (
	"errors"
	"fmt"
)

// Interview score bounds.
const (
	MinScore = 0
	MaxScore = 10
)

// ErrScoreOutOfRange is returned for scores outside [MinScore, MaxScore].
var ErrScoreOutOfRange = errors.New("score out of range")

// InterviewScores maps a question to the self-assigned score.
// Not safe for concurrent use; Session guards it.
type InterviewScores struct {
	scores map[string]int
}

// NewInterviewScores returns an empty score map.
func NewInterviewScores() *InterviewScores {
	return &InterviewScores{scores: make(map[string]int)}
}

// Record inserts or overwrites the score of question.
// Out-of-range scores are rejected and leave the map unchanged.
func (s *InterviewScores) Record(question string, score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: %d (allowed %d-%d)", ErrScoreOutOfRange, score, MinScore, MaxScore)
	}
	s.scores[question] = score
	return nil
}

// Score returns the recorded score of question.
func (s *InterviewScores) Score(question string) (int, bool) {
	v, ok := s.scores[question]
	return v, ok
}

// Len is the number of answered questions.
func (s *InterviewScores) Len() int { return len(s.scores) }

// Average is the mean of all recorded scores, 0 when none are recorded.
func (s *InterviewScores) Average() float64 {
	if len(s.scores) == 0 {
		return 0
	}
	sum := 0
	for _, v := range s.scores {
		sum += v
	}
	return float64(sum) / float64(len(s.scores))
}

// Reset forgets every score.
func (s *InterviewScores) Reset() { clear(s.scores) }
