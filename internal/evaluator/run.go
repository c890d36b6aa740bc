package evaluator

import (
	"context"
	"log/slog"

	"github.com/kdmarlow/intervue/internal/domain"
)

// Pipeline selects between the remote and heuristic evaluators. Each
// submission gets its own Run so breaker state never leaks across
// submissions.
type Pipeline struct {
	remote    domain.Evaluator
	heuristic *Heuristic
}

// NewPipeline creates an evaluation pipeline. remote may be nil, in which
// case every run scores locally from the start.
func NewPipeline(remote domain.Evaluator, heuristic *Heuristic) *Pipeline {
	return &Pipeline{remote: remote, heuristic: heuristic}
}

// Run is the breaker state for one submission: closed while the remote
// evaluator is trusted, open once it has failed. An open breaker stays open
// for the remainder of the run; there is no per-answer retry.
type Run struct {
	pipeline *Pipeline
	open     bool
}

// NewRun starts an evaluation run. The breaker starts open when no remote
// evaluator is configured.
func (p *Pipeline) NewRun() *Run {
	return &Run{pipeline: p, open: p.remote == nil}
}

// Evaluate scores one answer: remote first while the breaker is closed,
// heuristic otherwise. A remote failure opens the breaker and the failed
// answer is re-scored locally, so Evaluate itself never fails.
func (r *Run) Evaluate(ctx context.Context, question, answer, interviewDomain string) domain.Evaluation {
	if !r.open {
		ev, err := r.pipeline.remote.Evaluate(ctx, question, answer, interviewDomain)
		if err == nil {
			return ev
		}
		slog.Warn("remote evaluation failed, switching to heuristic scorer for remainder of run", "error", err)
		r.open = true
	}
	return r.pipeline.heuristic.Score(question, answer)
}

// Open reports whether the breaker has tripped during this run.
func (r *Run) Open() bool {
	return r.open
}
