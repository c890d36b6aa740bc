package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kdmarlow/intervue/internal/domain"
)

// InterviewRepository implements domain.InterviewRepository using SQLite.
// Question lists and answer maps live as JSON documents in the row, so a
// row is the unit of atomicity; Update rewrites the whole record
// (last-write-wins, no conflict detection).
type InterviewRepository struct {
	db *sql.DB
}

// NewInterviewRepository creates a new SQLite-backed InterviewRepository.
func NewInterviewRepository(db *DB) *InterviewRepository {
	return &InterviewRepository{db: db.SqlDB}
}

func (r *InterviewRepository) Create(ctx context.Context, iv *domain.Interview) error {
	doc, err := encodeInterviewDoc(iv)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO interviews
		 (id, user_id, domain, resume_path, hr_questions, technical_questions,
		  answers, answer_videos, score, feedback, status, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		iv.ID, iv.UserID, iv.Domain, iv.ResumePath,
		doc.hrQuestions, doc.technicalQuestions, doc.answers, doc.answerVideos,
		doc.score, doc.feedback, iv.Status, iv.StartedAt, doc.completedAt,
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id string) (*domain.Interview, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, domain, resume_path, hr_questions, technical_questions,
		        answers, answer_videos, score, feedback, status, started_at, completed_at
		 FROM interviews WHERE id = ?`, id,
	)
	iv, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query interview by id: %w", err)
	}
	return iv, nil
}

func (r *InterviewRepository) Update(ctx context.Context, iv *domain.Interview) error {
	doc, err := encodeInterviewDoc(iv)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE interviews SET
		 domain = ?, resume_path = ?, hr_questions = ?, technical_questions = ?,
		 answers = ?, answer_videos = ?, score = ?, feedback = ?, status = ?,
		 completed_at = ?
		 WHERE id = ?`,
		iv.Domain, iv.ResumePath, doc.hrQuestions, doc.technicalQuestions,
		doc.answers, doc.answerVideos, doc.score, doc.feedback, iv.Status,
		doc.completedAt, iv.ID,
	)
	if err != nil {
		return fmt.Errorf("update interview: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InterviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Interview, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, domain, resume_path, hr_questions, technical_questions,
		        answers, answer_videos, score, feedback, status, started_at, completed_at
		 FROM interviews WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query interviews by user: %w", err)
	}
	defer rows.Close()

	var interviews []domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		interviews = append(interviews, *iv)
	}
	return interviews, rows.Err()
}

// interviewDoc holds the JSON-encoded and nullable column values.
type interviewDoc struct {
	hrQuestions        string
	technicalQuestions string
	answers            string
	answerVideos       string
	score              sql.NullFloat64
	feedback           sql.NullString
	completedAt        sql.NullTime
}

func encodeInterviewDoc(iv *domain.Interview) (*interviewDoc, error) {
	doc := &interviewDoc{}

	var err error
	if doc.hrQuestions, err = encodeJSON(orEmptySlice(iv.HRQuestions)); err != nil {
		return nil, err
	}
	if doc.technicalQuestions, err = encodeJSON(orEmptySlice(iv.TechnicalQuestions)); err != nil {
		return nil, err
	}
	if doc.answers, err = encodeJSON(orEmptyMap(iv.Answers)); err != nil {
		return nil, err
	}
	if doc.answerVideos, err = encodeJSON(orEmptyMap(iv.AnswerVideos)); err != nil {
		return nil, err
	}

	if iv.Score != nil {
		doc.score = sql.NullFloat64{Float64: *iv.Score, Valid: true}
	}
	if iv.Feedback != nil {
		encoded, err := encodeJSON(iv.Feedback)
		if err != nil {
			return nil, err
		}
		doc.feedback = sql.NullString{String: encoded, Valid: true}
	}
	if iv.CompletedAt != nil {
		doc.completedAt = sql.NullTime{Time: *iv.CompletedAt, Valid: true}
	}

	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (*domain.Interview, error) {
	iv := &domain.Interview{}
	var doc interviewDoc

	err := row.Scan(
		&iv.ID, &iv.UserID, &iv.Domain, &iv.ResumePath,
		&doc.hrQuestions, &doc.technicalQuestions, &doc.answers, &doc.answerVideos,
		&doc.score, &doc.feedback, &iv.Status, &iv.StartedAt, &doc.completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(doc.hrQuestions), &iv.HRQuestions); err != nil {
		return nil, fmt.Errorf("decode hr questions: %w", err)
	}
	if err := json.Unmarshal([]byte(doc.technicalQuestions), &iv.TechnicalQuestions); err != nil {
		return nil, fmt.Errorf("decode technical questions: %w", err)
	}
	if err := json.Unmarshal([]byte(doc.answers), &iv.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal([]byte(doc.answerVideos), &iv.AnswerVideos); err != nil {
		return nil, fmt.Errorf("decode answer videos: %w", err)
	}

	if doc.score.Valid {
		score := doc.score.Float64
		iv.Score = &score
	}
	if doc.feedback.Valid {
		if err := json.Unmarshal([]byte(doc.feedback.String), &iv.Feedback); err != nil {
			return nil, fmt.Errorf("decode feedback: %w", err)
		}
	}
	if doc.completedAt.Valid {
		completedAt := doc.completedAt.Time
		iv.CompletedAt = &completedAt
	}

	return iv, nil
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(data), nil
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyMap(m map[int]string) map[int]string {
	if m == nil {
		return map[int]string{}
	}
	return m
}
