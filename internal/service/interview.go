package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kdmarlow/intervue/internal/domain"
	"github.com/kdmarlow/intervue/internal/evaluator"
	"github.com/kdmarlow/intervue/internal/questionbank"
)

// InterviewService orchestrates the interview lifecycle: creation, question
// assignment, answer capture, and submission scoring.
type InterviewService struct {
	interviews domain.InterviewRepository
	files      domain.FileStore
	bank       *questionbank.Bank
	pipeline   *evaluator.Pipeline
	now        func() time.Time
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(interviews domain.InterviewRepository, files domain.FileStore, bank *questionbank.Bank, pipeline *evaluator.Pipeline) *InterviewService {
	return &InterviewService{
		interviews: interviews,
		files:      files,
		bank:       bank,
		pipeline:   pipeline,
		now:        time.Now,
	}
}

// Create allocates a new interview for the user with no questions assigned.
func (s *InterviewService) Create(ctx context.Context, userID, interviewDomain string) (*domain.Interview, error) {
	if strings.TrimSpace(interviewDomain) == "" {
		return nil, fmt.Errorf("%w: domain is required", domain.ErrInvalidInput)
	}

	iv := &domain.Interview{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Domain:             interviewDomain,
		HRQuestions:        []string{},
		TechnicalQuestions: []string{},
		Answers:            map[int]string{},
		AnswerVideos:       map[int]string{},
		Status:             domain.InterviewStatusStarted,
		StartedAt:          s.now().UTC(),
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}
	return iv, nil
}

// Get returns an interview owned by userID. Foreign records read as
// ErrNotFound so ownership is not probeable.
func (s *InterviewService) Get(ctx context.Context, id, userID string) (*domain.Interview, error) {
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return iv, nil
}

// List returns all interviews owned by the user, newest first.
func (s *InterviewService) List(ctx context.Context, userID string) ([]domain.Interview, error) {
	interviews, err := s.interviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(interviews, func(i, j int) bool {
		return interviews[i].StartedAt.After(interviews[j].StartedAt)
	})
	return interviews, nil
}

// AssignQuestions resolves the question bank for the interview's domain and
// persists 5 HR + 5 technical questions. Idempotent: an interview that
// already has both question lists keeps them unchanged.
func (s *InterviewService) AssignQuestions(ctx context.Context, id, userID string) (*domain.Interview, error) {
	iv, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if len(iv.HRQuestions) > 0 && len(iv.TechnicalQuestions) > 0 {
		return iv, nil
	}

	set := s.bank.QuestionsByDomain(iv.Domain)
	iv.HRQuestions = set.HR
	iv.TechnicalQuestions = set.Technical
	if err := s.interviews.Update(ctx, iv); err != nil {
		return nil, fmt.Errorf("persist questions: %w", err)
	}
	return iv, nil
}

// ResolveQuestionID maps a question id of the form "hr-<n>" or "tech-<n>"
// (1-indexed) to an absolute index into the concatenated question sequence.
func ResolveQuestionID(iv *domain.Interview, questionID string) (int, error) {
	prefix, numStr, ok := strings.Cut(questionID, "-")
	if !ok {
		return 0, fmt.Errorf("%w: question %q", domain.ErrNotFound, questionID)
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: question %q", domain.ErrNotFound, questionID)
	}

	switch prefix {
	case "hr":
		if n > len(iv.HRQuestions) {
			return 0, fmt.Errorf("%w: question %q", domain.ErrNotFound, questionID)
		}
		return n - 1, nil
	case "tech":
		if n > len(iv.TechnicalQuestions) {
			return 0, fmt.Errorf("%w: question %q", domain.ErrNotFound, questionID)
		}
		return len(iv.HRQuestions) + n - 1, nil
	default:
		return 0, fmt.Errorf("%w: question %q", domain.ErrNotFound, questionID)
	}
}

// SaveAnswer stores the answer text at the resolved question index,
// overwriting any previous answer. Video bytes, when present, are stored in
// the blob store; a video save failure is swallowed so the text still
// lands. The first saved answer moves the interview to in-progress.
// Completed interviews reject further answers.
func (s *InterviewService) SaveAnswer(ctx context.Context, id, userID, questionID, text string, video []byte) (int, error) {
	iv, err := s.Get(ctx, id, userID)
	if err != nil {
		return 0, err
	}
	if iv.Status == domain.InterviewStatusCompleted {
		return 0, fmt.Errorf("%w: interview already completed", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: answer text is required", domain.ErrInvalidInput)
	}

	index, err := ResolveQuestionID(iv, questionID)
	if err != nil {
		return 0, err
	}

	if iv.Answers == nil {
		iv.Answers = map[int]string{}
	}
	iv.Answers[index] = text

	if len(video) > 0 {
		key := fmt.Sprintf("%s-%s-%d.webm", iv.ID, questionID, s.now().UnixMilli())
		if err := s.files.Save(ctx, key, video); err != nil {
			slog.Error("save answer video failed, keeping answer text", "interview", iv.ID, "question", questionID, "error", err)
		} else {
			if iv.AnswerVideos == nil {
				iv.AnswerVideos = map[int]string{}
			}
			iv.AnswerVideos[index] = key
		}
	}

	if iv.Status == domain.InterviewStatusStarted {
		iv.Status = domain.InterviewStatusInProgress
	}

	if err := s.interviews.Update(ctx, iv); err != nil {
		return 0, fmt.Errorf("persist answer: %w", err)
	}
	return index, nil
}

// UploadResume stores resume bytes under "{userID}-{timestamp}-{filename}"
// and records the key on the interview.
func (s *InterviewService) UploadResume(ctx context.Context, id, userID, filename string, data []byte) (string, error) {
	if filename == "" || len(data) == 0 {
		return "", fmt.Errorf("%w: resume file is required", domain.ErrInvalidInput)
	}

	iv, err := s.Get(ctx, id, userID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s-%d-%s", userID, s.now().UnixMilli(), filename)
	if err := s.files.Save(ctx, key, data); err != nil {
		return "", fmt.Errorf("save resume: %w", err)
	}

	iv.ResumePath = key
	if iv.Status == domain.InterviewStatusStarted {
		iv.Status = domain.InterviewStatusInProgress
	}
	if err := s.interviews.Update(ctx, iv); err != nil {
		return "", fmt.Errorf("persist resume path: %w", err)
	}
	return key, nil
}

// SubmitResult carries the aggregated scores of one submission.
type SubmitResult struct {
	HRScore        float64
	TechnicalScore float64
	OverallScore   float64
	Feedback       []string
}

// Submit evaluates every answered question and finalizes the interview.
// Remote scoring is tried first; after the first remote failure the rest of
// the run scores locally. Fails with ErrInvalidInput when nothing has been
// answered.
func (s *InterviewService) Submit(ctx context.Context, id, userID string) (*SubmitResult, error) {
	iv, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	answered := iv.AnsweredIndices()
	if len(answered) == 0 {
		return nil, fmt.Errorf("%w: no answers to evaluate", domain.ErrInvalidInput)
	}

	run := s.pipeline.NewRun()

	var hrSum, techSum float64
	var hrCount, techCount int
	feedback := make([]string, 0, len(answered))

	for _, i := range answered {
		ev := run.Evaluate(ctx, iv.QuestionAt(i), iv.Answers[i], iv.Domain)

		category := "Technical"
		if iv.IsHRIndex(i) {
			category = "HR"
		}
		feedback = append(feedback, fmt.Sprintf("Q%d (%s): %s", i+1, category, ev.Feedback))

		if iv.IsHRIndex(i) {
			hrSum += ev.Score
			hrCount++
		} else {
			techSum += ev.Score
			techCount++
		}
	}

	var avgHR, avgTech float64
	if hrCount > 0 {
		avgHR = hrSum / float64(hrCount)
	}
	if techCount > 0 {
		avgTech = techSum / float64(techCount)
	}
	overall := round1((avgHR + avgTech) / 2)

	now := s.now().UTC()
	iv.Score = &overall
	iv.Feedback = feedback
	iv.Status = domain.InterviewStatusCompleted
	iv.CompletedAt = &now
	if err := s.interviews.Update(ctx, iv); err != nil {
		return nil, fmt.Errorf("persist results: %w", err)
	}

	return &SubmitResult{
		HRScore:        round1(avgHR),
		TechnicalScore: round1(avgTech),
		OverallScore:   overall,
		Feedback:       feedback,
	}, nil
}

// Results returns a completed interview. Until submission it reads as
// ErrNotFound, matching the HTTP surface where results 404 until ready.
func (s *InterviewService) Results(ctx context.Context, id, userID string) (*domain.Interview, error) {
	iv, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if iv.Status != domain.InterviewStatusCompleted || iv.Score == nil {
		return nil, fmt.Errorf("%w: results not available", domain.ErrNotFound)
	}
	return iv, nil
}

// GetAnswerVideo returns stored video bytes for a key of the form
// "{interviewID}-{questionID}-{ts}.webm", after checking the interview
// owner.
func (s *InterviewService) GetAnswerVideo(ctx context.Context, key, userID string) ([]byte, error) {
	const uuidLen = 36
	if len(key) <= uuidLen {
		return nil, domain.ErrNotFound
	}
	if _, err := s.Get(ctx, key[:uuidLen], userID); err != nil {
		return nil, err
	}
	return s.files.Get(ctx, key)
}

// GetResume returns stored resume bytes for an interview owned by userID.
func (s *InterviewService) GetResume(ctx context.Context, id, userID string) ([]byte, error) {
	iv, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if iv.ResumePath == "" {
		return nil, domain.ErrNotFound
	}
	return s.files.Get(ctx, iv.ResumePath)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
