package domain

import (
	"context"
	"strings"
	"time"
)

// Interview is one practice interview owned by a user. Questions are fixed
// once assigned; answers are keyed by absolute question index into the
// concatenated [HRQuestions..., TechnicalQuestions...] sequence.
type Interview struct {
	ID                 string
	UserID             string
	Domain             string
	ResumePath         string
	HRQuestions        []string
	TechnicalQuestions []string
	Answers            map[int]string
	AnswerVideos       map[int]string
	Score              *float64
	Feedback           []string
	Status             string
	StartedAt          time.Time
	CompletedAt        *time.Time
}

const (
	InterviewStatusStarted    = "started"
	InterviewStatusInProgress = "in-progress"
	InterviewStatusCompleted  = "completed"
)

// QuestionCount returns the total number of assigned questions.
func (iv *Interview) QuestionCount() int {
	return len(iv.HRQuestions) + len(iv.TechnicalQuestions)
}

// QuestionAt returns the question text at the given absolute index.
func (iv *Interview) QuestionAt(index int) string {
	if index < len(iv.HRQuestions) {
		return iv.HRQuestions[index]
	}
	return iv.TechnicalQuestions[index-len(iv.HRQuestions)]
}

// IsHRIndex reports whether the given absolute index falls in the HR range.
func (iv *Interview) IsHRIndex(index int) bool {
	return index < len(iv.HRQuestions)
}

// AnsweredIndices returns the indices with a non-empty answer, ascending.
func (iv *Interview) AnsweredIndices() []int {
	var indices []int
	for i := 0; i < iv.QuestionCount(); i++ {
		if ans, ok := iv.Answers[i]; ok && strings.TrimSpace(ans) != "" {
			indices = append(indices, i)
		}
	}
	return indices
}

// InterviewRepository defines persistence operations for interviews.
// Update writes the full record; concurrent updates are last-write-wins.
type InterviewRepository interface {
	Create(ctx context.Context, interview *Interview) error
	GetByID(ctx context.Context, id string) (*Interview, error)
	Update(ctx context.Context, interview *Interview) error
	ListByUser(ctx context.Context, userID string) ([]Interview, error)
}
