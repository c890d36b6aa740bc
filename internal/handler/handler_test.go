package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kdmarlow/intervue/internal/evaluator"
	"github.com/kdmarlow/intervue/internal/questionbank"
	"github.com/kdmarlow/intervue/internal/repository/memory"
	"github.com/kdmarlow/intervue/internal/repository/sqlite"
	"github.com/kdmarlow/intervue/internal/service"
)

// newTestServer wires the full stack against a temp database and returns a
// client with a cookie jar, so session cookies flow like a browser's. The
// login limiter is generous; rate limit tests use newTestServerWithLimiter.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client, *service.AuthService) {
	t.Helper()
	return newTestServerWithLimiter(t, service.NewAttemptLimiter(1000, 1000))
}

func newTestServerWithLimiter(t *testing.T, limiter *service.AttemptLimiter) (*httptest.Server, *http.Client, *service.AuthService) {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(t.Context()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	auth := service.NewAuthService(db.Users(), memory.NewSessionStore(), 10)
	interviews := service.NewInterviewService(db.Interviews(), db.FileStore(),
		questionbank.Default(), evaluator.NewPipeline(nil, evaluator.NewHeuristic()))

	mux := http.NewServeMux()
	RegisterRoutes(mux, auth,
		NewAuthHandler(auth, limiter, false),
		NewInterviewHandler(interviews))

	server := httptest.NewServer(SecurityHeaders(mux))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return server, &http.Client{Jar: jar}, auth
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// register signs up a fresh user through the API, leaving the session cookie
// in the client's jar.
func register(t *testing.T, client *http.Client, baseURL, email string) {
	t.Helper()

	resp := postJSON(t, client, baseURL+"/api/auth/register", map[string]string{
		"email":    email,
		"name":     "Test User",
		"password": "longenough",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("register: status %d, body %s", resp.StatusCode, body)
	}
}
