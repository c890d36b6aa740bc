package handler

import (
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/kdmarlow/intervue/internal/domain"
)

//go:embed report.gohtml
var reportTemplateText string

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateText))

type reportQA struct {
	Number   int
	Category string
	Question string
	Answer   string
}

type reportData struct {
	CandidateName string
	Domain        string
	Score         float64
	CompletedAt   string
	GeneratedAt   string
	Questions     []reportQA
	Feedback      []string
}

// HandleExport renders a completed interview as a standalone HTML report.
// GET /api/interviews/{id}/export
func (h *InterviewHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	iv, err := h.interviews.Results(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, "export report", err)
		return
	}

	data := reportData{
		CandidateName: user.Name,
		Domain:        iv.Domain,
		Score:         *iv.Score,
		CompletedAt:   iv.CompletedAt.Format("January 2, 2006 15:04 MST"),
		GeneratedAt:   time.Now().Format("January 2, 2006 15:04 MST"),
		Questions:     reportQuestions(iv),
		Feedback:      iv.Feedback,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="interview-report.html"`)
	if err := reportTemplate.Execute(w, data); err != nil {
		slog.Error("render report", "interview", iv.ID, "error", err)
	}
}

func reportQuestions(iv *domain.Interview) []reportQA {
	qas := make([]reportQA, 0, iv.QuestionCount())
	for i := 0; i < iv.QuestionCount(); i++ {
		category := "Technical"
		if iv.IsHRIndex(i) {
			category = "HR"
		}
		answer := iv.Answers[i]
		if answer == "" {
			answer = "(not answered)"
		}
		qas = append(qas, reportQA{
			Number:   i + 1,
			Category: category,
			Question: iv.QuestionAt(i),
			Answer:   answer,
		})
	}
	return qas
}
