package handler

import (
	"net/http"

	"github.com/kdmarlow/intervue/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Everything under
// /api except register and login requires a valid session cookie.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, authHandler *AuthHandler, interviewHandler *InterviewHandler) {
	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.Handle("POST /api/interviews", protected(interviewHandler.HandleCreate))
	mux.Handle("GET /api/interviews", protected(interviewHandler.HandleList))
	mux.Handle("GET /api/interviews/{id}", protected(interviewHandler.HandleGet))
	mux.Handle("POST /api/interviews/{id}/questions", protected(interviewHandler.HandleAssignQuestions))
	mux.Handle("POST /api/interviews/{id}/answers", protected(interviewHandler.HandleSaveAnswer))
	mux.Handle("POST /api/interviews/{id}/resume", protected(interviewHandler.HandleUploadResume))
	mux.Handle("GET /api/interviews/{id}/resume", protected(interviewHandler.HandleResume))
	mux.Handle("POST /api/interviews/{id}/submit", protected(interviewHandler.HandleSubmit))
	mux.Handle("GET /api/interviews/{id}/results", protected(interviewHandler.HandleResults))
	mux.Handle("GET /api/interviews/{id}/export", protected(interviewHandler.HandleExport))
	mux.Handle("GET /api/videos/{key}", protected(interviewHandler.HandleVideo))
}
