package domain

import "context"

// Evaluation is the result of scoring one answer.
type Evaluation struct {
	Score    float64
	Feedback string
}

// Evaluator scores a single answer to an interview question. Implementations
// backed by a remote service may fail; pure implementations never do.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer, domain string) (Evaluation, error)
}
