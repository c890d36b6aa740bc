package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kdmarlow/intervue/internal/service"
)

// Uploads are bounded; answer videos are short webm clips.
const maxUploadBytes = 50 << 20 // 50MB

// InterviewHandler handles interview lifecycle HTTP requests.
type InterviewHandler struct {
	interviews *service.InterviewService
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviews *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// HandleCreate creates a new interview.
// POST /api/interviews
// Request:  {"domain":"frontend"}
// Response: {"interviewId":"..."}
func (h *InterviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Domain string `json:"domain"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	iv, err := h.interviews.Create(r.Context(), user.ID, req.Domain)
	if err != nil {
		writeServiceError(w, "create interview", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"interviewId": iv.ID,
		"message":     "Interview created successfully",
	})
}

// HandleAssignQuestions assigns the question bank sets for the interview's
// domain. Idempotent: repeated calls return the same questions.
// POST /api/interviews/{id}/questions
func (h *InterviewHandler) HandleAssignQuestions(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	iv, err := h.interviews.AssignQuestions(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, "assign questions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"questions":          toQuestionDTOs(iv),
		"hrQuestions":        iv.HRQuestions,
		"technicalQuestions": iv.TechnicalQuestions,
	})
}

// HandleSaveAnswer stores one answer, JSON or multipart (the latter may
// carry a video part). A failed video save still saves the text.
// POST /api/interviews/{id}/answers
// JSON request: {"questionId":"hr-1","answerText":"..."}
func (h *InterviewHandler) HandleSaveAnswer(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := r.PathValue("id")

	var questionID, answerText string
	var video []byte

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid multipart body.")
			return
		}
		questionID = r.FormValue("questionId")
		answerText = r.FormValue("answerText")

		if file, _, err := r.FormFile("video"); err == nil {
			video, err = io.ReadAll(file)
			file.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, "Failed to read video upload.")
				return
			}
		}
	} else {
		var req struct {
			QuestionID string `json:"questionId"`
			AnswerText string `json:"answerText"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		questionID = req.QuestionID
		answerText = req.AnswerText
	}

	if questionID == "" || answerText == "" {
		writeError(w, http.StatusBadRequest, "questionId and answerText are required.")
		return
	}

	index, err := h.interviews.SaveAnswer(r.Context(), id, user.ID, questionID, answerText, video)
	if err != nil {
		writeServiceError(w, "save answer", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Answer saved successfully",
		"answerId":      questionID,
		"questionIndex": index,
	})
}

// HandleUploadResume attaches a resume file to the interview.
// POST /api/interviews/{id}/resume (multipart, part "file")
func (h *InterviewHandler) HandleUploadResume(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Resume file is required.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read resume upload.")
		return
	}

	key, err := h.interviews.UploadResume(r.Context(), r.PathValue("id"), user.ID, header.Filename, data)
	if err != nil {
		writeServiceError(w, "upload resume", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Resume uploaded successfully",
		"resumePath": key,
	})
}

// HandleSubmit finalizes the interview: evaluates every answered question
// and persists the aggregated score and feedback.
// POST /api/interviews/{id}/submit
func (h *InterviewHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	result, err := h.interviews.Submit(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, "submit interview", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"hrScore":        result.HRScore,
		"technicalScore": result.TechnicalScore,
		"overallScore":   result.OverallScore,
		"feedback":       result.Feedback,
		"message":        "Interview submitted successfully",
	})
}

// HandleResults returns the scored interview; 404 until completed.
// GET /api/interviews/{id}/results
func (h *InterviewHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	iv, err := h.interviews.Results(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, "get results", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overallScore": *iv.Score,
		"feedback":     iv.Feedback,
		"domain":       iv.Domain,
		"completedAt":  iv.CompletedAt.Format(time.RFC3339),
	})
}

// HandleGet returns the full interview record.
// GET /api/interviews/{id}
func (h *InterviewHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	iv, err := h.interviews.Get(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, "get interview", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"interview": toInterviewDTO(iv)})
}

// HandleList returns the caller's interviews, newest first.
// GET /api/interviews
func (h *InterviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	interviews, err := h.interviews.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list interviews", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"interviews": toInterviewSummaryDTOs(interviews)})
}

// HandleResume streams the stored resume for an interview, owner only.
// GET /api/interviews/{id}/resume
func (h *InterviewHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	data, err := h.interviews.GetResume(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, "get resume", err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleVideo streams a stored answer video, owner only.
// GET /api/videos/{key}
func (h *InterviewHandler) HandleVideo(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	data, err := h.interviews.GetAnswerVideo(r.Context(), r.PathValue("key"), user.ID)
	if err != nil {
		writeServiceError(w, "get answer video", err)
		return
	}

	w.Header().Set("Content-Type", "video/webm")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
