package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kdmarlow/intervue/internal/domain"
)

const defaultFeedback = "No feedback available"

// Remote scores answers by asking an OpenAI-compatible chat-completions
// endpoint for a JSON verdict. Any transport or parse failure is returned
// to the caller so it can switch to the heuristic evaluator.
type Remote struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewRemote creates a remote evaluator against the given chat-completions
// base URL (e.g. "https://api.openai.com/v1").
func NewRemote(baseURL, apiKey, model string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type verdict struct {
	Score    *float64 `json:"score"`
	Feedback string   `json:"feedback"`
}

// Evaluate implements domain.Evaluator.
func (r *Remote) Evaluate(ctx context.Context, question, answer, interviewDomain string) (domain.Evaluation, error) {
	prompt := fmt.Sprintf(`You are an expert %s interviewer. Evaluate the following answer to an interview question.

Question: %q
Answer: %q

Provide:
1. A score from 1-10
2. Brief feedback (2-3 sentences)

Format as JSON: {"score": number, "feedback": "string"}
Return ONLY the JSON object.`, interviewDomain, question, answer)

	reqBody := chatRequest{
		Model:       r.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
		MaxTokens:   500,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: %v", domain.ErrEvaluation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: read response: %v", domain.ErrEvaluation, err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.Evaluation{}, fmt.Errorf("%w: status %d: %s", domain.ErrEvaluation, resp.StatusCode, truncate(string(body), 200))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: unmarshal response: %v", domain.ErrEvaluation, err)
	}
	if chatResp.Error != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: %s", domain.ErrEvaluation, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return domain.Evaluation{}, fmt.Errorf("%w: no choices returned", domain.ErrEvaluation)
	}

	return parseVerdict(chatResp.Choices[0].Message.Content)
}

// parseVerdict extracts {score, feedback} from the model output. Missing
// fields get placeholder defaults; an unparseable body is an error.
func parseVerdict(content string) (domain.Evaluation, error) {
	var v verdict
	if err := json.Unmarshal([]byte(stripMarkdownFences(content)), &v); err != nil {
		return domain.Evaluation{}, fmt.Errorf("%w: parse verdict: %v", domain.ErrEvaluation, err)
	}

	score := 5.0
	if v.Score != nil {
		score = *v.Score
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	feedback := v.Feedback
	if feedback == "" {
		feedback = defaultFeedback
	}

	return domain.Evaluation{Score: roundScore(score), Feedback: feedback}, nil
}

// stripMarkdownFences removes ```json fences that chat models like to wrap
// around JSON output.
func stripMarkdownFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
