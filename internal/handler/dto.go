package handler

import (
	"fmt"
	"time"

	"github.com/kdmarlow/intervue/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// QuestionDTO is one assigned question with its client-facing id
// ("hr-1".."hr-5", "tech-1".."tech-5") and 1-based order number.
type QuestionDTO struct {
	ID           string `json:"id"`
	InterviewID  string `json:"interviewId"`
	QuestionText string `json:"questionText"`
	QuestionType string `json:"questionType"`
	OrderNum     int    `json:"orderNum"`
}

func toQuestionDTOs(iv *domain.Interview) []QuestionDTO {
	dtos := make([]QuestionDTO, 0, iv.QuestionCount())
	for i, q := range iv.HRQuestions {
		dtos = append(dtos, QuestionDTO{
			ID:           fmt.Sprintf("hr-%d", i+1),
			InterviewID:  iv.ID,
			QuestionText: q,
			QuestionType: "hr",
			OrderNum:     i + 1,
		})
	}
	for i, q := range iv.TechnicalQuestions {
		dtos = append(dtos, QuestionDTO{
			ID:           fmt.Sprintf("tech-%d", i+1),
			InterviewID:  iv.ID,
			QuestionText: q,
			QuestionType: "technical",
			OrderNum:     len(iv.HRQuestions) + i + 1,
		})
	}
	return dtos
}

// InterviewSummaryDTO is the list-view representation of an interview.
type InterviewSummaryDTO struct {
	ID          string   `json:"id"`
	Domain      string   `json:"domain"`
	Status      string   `json:"status"`
	Score       *float64 `json:"score"`
	StartedAt   string   `json:"startedAt"`
	CompletedAt *string  `json:"completedAt"`
}

func toInterviewSummaryDTO(iv *domain.Interview) InterviewSummaryDTO {
	dto := InterviewSummaryDTO{
		ID:        iv.ID,
		Domain:    iv.Domain,
		Status:    iv.Status,
		Score:     iv.Score,
		StartedAt: iv.StartedAt.Format(time.RFC3339),
	}
	if iv.CompletedAt != nil {
		completed := iv.CompletedAt.Format(time.RFC3339)
		dto.CompletedAt = &completed
	}
	return dto
}

func toInterviewSummaryDTOs(interviews []domain.Interview) []InterviewSummaryDTO {
	dtos := make([]InterviewSummaryDTO, len(interviews))
	for i := range interviews {
		dtos[i] = toInterviewSummaryDTO(&interviews[i])
	}
	return dtos
}

// InterviewDTO is the full representation, with answers and videos
// materialized as dense arrays parallel to the question sequence.
type InterviewDTO struct {
	InterviewSummaryDTO
	ResumePath         string   `json:"resumePath"`
	HRQuestions        []string `json:"hrQuestions"`
	TechnicalQuestions []string `json:"technicalQuestions"`
	Answers            []string `json:"answers"`
	AnswerVideos       []string `json:"answerVideos"`
	Feedback           []string `json:"feedback"`
}

func toInterviewDTO(iv *domain.Interview) InterviewDTO {
	total := iv.QuestionCount()
	answers := make([]string, total)
	videos := make([]string, total)
	for i := 0; i < total; i++ {
		answers[i] = iv.Answers[i]
		videos[i] = iv.AnswerVideos[i]
	}
	return InterviewDTO{
		InterviewSummaryDTO: toInterviewSummaryDTO(iv),
		ResumePath:          iv.ResumePath,
		HRQuestions:         iv.HRQuestions,
		TechnicalQuestions:  iv.TechnicalQuestions,
		Answers:             answers,
		AnswerVideos:        videos,
		Feedback:            iv.Feedback,
	}
}
