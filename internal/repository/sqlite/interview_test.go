package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kdmarlow/intervue/internal/domain"
)

// seedUser inserts a user row so interview foreign keys resolve.
func seedUser(t *testing.T, db *DB) string {
	t.Helper()

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		Name:         "Test User",
		PasswordHash: "h",
	}
	if err := db.Users().Create(t.Context(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func TestInterviewRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := db.Interviews()
	userID := seedUser(t, db)

	iv := &domain.Interview{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Domain:             "backend",
		HRQuestions:        []string{"hr one", "hr two"},
		TechnicalQuestions: []string{"tech one"},
		Status:             domain.InterviewStatusStarted,
		StartedAt:          time.Now().UTC().Truncate(time.Second),
	}
	if err := repo.Create(t.Context(), iv); err != nil {
		t.Fatalf("create interview: %v", err)
	}

	got, err := repo.GetByID(t.Context(), iv.ID)
	if err != nil {
		t.Fatalf("get interview: %v", err)
	}
	if got.UserID != userID || got.Domain != "backend" {
		t.Fatalf("got %+v", got)
	}
	if len(got.HRQuestions) != 2 || got.HRQuestions[1] != "hr two" {
		t.Fatalf("hr questions round-trip: %v", got.HRQuestions)
	}
	if len(got.TechnicalQuestions) != 1 {
		t.Fatalf("technical questions round-trip: %v", got.TechnicalQuestions)
	}
	if got.Score != nil || got.CompletedAt != nil || got.Feedback != nil {
		t.Fatalf("expected nullable fields unset, got %+v", got)
	}
	if got.Answers == nil || len(got.Answers) != 0 {
		t.Fatalf("expected empty answers map, got %v", got.Answers)
	}
}

func TestInterviewRepository_UpdateRoundTripsSparseAnswers(t *testing.T) {
	db := newTestDB(t)
	repo := db.Interviews()
	userID := seedUser(t, db)

	iv := &domain.Interview{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Domain:             "frontend",
		HRQuestions:        []string{"a", "b", "c"},
		TechnicalQuestions: []string{"d", "e"},
		Status:             domain.InterviewStatusStarted,
		StartedAt:          time.Now().UTC(),
	}
	if err := repo.Create(t.Context(), iv); err != nil {
		t.Fatalf("create interview: %v", err)
	}

	// Answer out of order and skip indices; the map must survive as-is.
	iv.Answers = map[int]string{4: "last answer", 1: "second answer"}
	iv.AnswerVideos = map[int]string{1: "key-1.webm"}
	iv.Status = domain.InterviewStatusInProgress
	if err := repo.Update(t.Context(), iv); err != nil {
		t.Fatalf("update interview: %v", err)
	}

	got, err := repo.GetByID(t.Context(), iv.ID)
	if err != nil {
		t.Fatalf("get interview: %v", err)
	}
	if len(got.Answers) != 2 || got.Answers[4] != "last answer" || got.Answers[1] != "second answer" {
		t.Fatalf("answers round-trip: %v", got.Answers)
	}
	if got.AnswerVideos[1] != "key-1.webm" {
		t.Fatalf("answer videos round-trip: %v", got.AnswerVideos)
	}
	if got.Status != domain.InterviewStatusInProgress {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestInterviewRepository_UpdateCompletion(t *testing.T) {
	db := newTestDB(t)
	repo := db.Interviews()
	userID := seedUser(t, db)

	iv := &domain.Interview{
		ID:          uuid.NewString(),
		UserID:      userID,
		Domain:      "qa",
		HRQuestions: []string{"q"},
		Status:      domain.InterviewStatusInProgress,
		StartedAt:   time.Now().UTC(),
	}
	if err := repo.Create(t.Context(), iv); err != nil {
		t.Fatalf("create interview: %v", err)
	}

	score := 7.5
	completed := time.Now().UTC().Truncate(time.Second)
	iv.Score = &score
	iv.Feedback = []string{"Q1 (HR): solid answer"}
	iv.Status = domain.InterviewStatusCompleted
	iv.CompletedAt = &completed
	if err := repo.Update(t.Context(), iv); err != nil {
		t.Fatalf("update interview: %v", err)
	}

	got, err := repo.GetByID(t.Context(), iv.ID)
	if err != nil {
		t.Fatalf("get interview: %v", err)
	}
	if got.Score == nil || *got.Score != 7.5 {
		t.Fatalf("score = %v, want 7.5", got.Score)
	}
	if len(got.Feedback) != 1 || got.Feedback[0] != "Q1 (HR): solid answer" {
		t.Fatalf("feedback = %v", got.Feedback)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completed) {
		t.Fatalf("completed_at = %v, want %v", got.CompletedAt, completed)
	}
}

func TestInterviewRepository_ConcurrentUpdateLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	repo := db.Interviews()
	userID := seedUser(t, db)

	iv := &domain.Interview{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Domain:             "backend",
		HRQuestions:        []string{"a", "b"},
		TechnicalQuestions: []string{"c"},
		Status:             domain.InterviewStatusStarted,
		StartedAt:          time.Now().UTC(),
	}
	if err := repo.Create(t.Context(), iv); err != nil {
		t.Fatalf("create interview: %v", err)
	}

	// Two readers snapshot the same row, as two browser tabs would.
	first, err := repo.GetByID(t.Context(), iv.ID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := repo.GetByID(t.Context(), iv.ID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	first.Answers = map[int]string{0: "answer from the first reader"}
	if err := repo.Update(t.Context(), first); err != nil {
		t.Fatalf("first update: %v", err)
	}

	second.Answers = map[int]string{1: "answer from the second reader"}
	if err := repo.Update(t.Context(), second); err != nil {
		t.Fatalf("second update: %v", err)
	}

	// Update writes the full record, so the later write replaces the earlier
	// one wholesale: the first reader's answer is gone.
	got, err := repo.GetByID(t.Context(), iv.ID)
	if err != nil {
		t.Fatalf("final read: %v", err)
	}
	if len(got.Answers) != 1 || got.Answers[1] != "answer from the second reader" {
		t.Fatalf("answers = %v, want only the second reader's answer", got.Answers)
	}
	if _, ok := got.Answers[0]; ok {
		t.Fatal("first reader's answer should be dropped by the later full-record write")
	}
}

func TestInterviewRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := db.Interviews()

	if _, err := repo.GetByID(t.Context(), uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get: got %v, want ErrNotFound", err)
	}

	phantom := &domain.Interview{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Domain:    "backend",
		Status:    domain.InterviewStatusStarted,
		StartedAt: time.Now().UTC(),
	}
	if err := repo.Update(t.Context(), phantom); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update: got %v, want ErrNotFound", err)
	}
}

func TestInterviewRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := db.Interviews()
	owner := seedUser(t, db)
	other := seedUser(t, db)

	for i, userID := range []string{owner, owner, other} {
		iv := &domain.Interview{
			ID:        uuid.NewString(),
			UserID:    userID,
			Domain:    "devops",
			Status:    domain.InterviewStatusStarted,
			StartedAt: time.Now().UTC().Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(t.Context(), iv); err != nil {
			t.Fatalf("create interview %d: %v", i, err)
		}
	}

	list, err := repo.ListByUser(t.Context(), owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d interviews, want 2", len(list))
	}
	for _, iv := range list {
		if iv.UserID != owner {
			t.Fatalf("listed interview for wrong user: %+v", iv)
		}
	}

	empty, err := repo.ListByUser(t.Context(), uuid.NewString())
	if err != nil {
		t.Fatalf("list unknown user: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %d", len(empty))
	}
}
