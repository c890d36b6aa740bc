package evaluator

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/kdmarlow/intervue/internal/domain"
)

// Heuristic scores answers from text features alone: a base score from the
// word count plus fixed boosts for quality indicators. It is deterministic,
// performs no I/O, and never fails.
type Heuristic struct{}

// NewHeuristic creates a heuristic evaluator.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

type qualityIndicator struct {
	pattern *regexp.Regexp
	boost   float64
}

var qualityIndicators = []qualityIndicator{
	{regexp.MustCompile(`(?i)example|demonstrate|show|illustrate`), 0.5},
	{regexp.MustCompile(`(?i)specific|particular|concrete`), 0.3},
	{regexp.MustCompile(`(?i)challenge|problem|issue`), 0.4},
	{regexp.MustCompile(`(?i)solution|approach|method|strategy`), 0.5},
	{regexp.MustCompile(`(?i)learn|experience|gained|understand`), 0.3},
	{regexp.MustCompile(`(?i)team|collaborate|communication|work`), 0.4},
	{regexp.MustCompile(`(?i)improve|optimize|enhance|better`), 0.3},
}

var (
	exampleRe   = regexp.MustCompile(`(?i)example`)
	challengeRe = regexp.MustCompile(`(?i)challenge|difficult`)
	teamworkRe  = regexp.MustCompile(`(?i)team|collaborate`)
)

// Score evaluates one answer. The returned score is within [1,10], rounded
// to one decimal.
func (h *Heuristic) Score(question, answer string) domain.Evaluation {
	wordCount := len(strings.Fields(answer))

	var score float64
	switch {
	case wordCount < 10:
		score = 3
	case wordCount < 30:
		score = 5
	case wordCount < 100:
		score = 6.5
	case wordCount < 200:
		score = 8
	default:
		score = 9
	}

	for _, ind := range qualityIndicators {
		if ind.pattern.MatchString(answer) {
			score += ind.boost
		}
	}

	score = math.Min(10, math.Max(1, score))

	return domain.Evaluation{
		Score:    roundScore(score),
		Feedback: heuristicFeedback(answer, wordCount, score),
	}
}

// Evaluate implements domain.Evaluator. The context and interview domain are
// unused; scoring is purely local.
func (h *Heuristic) Evaluate(_ context.Context, question, answer, _ string) (domain.Evaluation, error) {
	return h.Score(question, answer), nil
}

func heuristicFeedback(answer string, wordCount int, score float64) string {
	var b strings.Builder

	switch {
	case wordCount < 10:
		b.WriteString("Answer is too brief. Please provide more details and context.")
	case wordCount < 30:
		b.WriteString("Answer lacks depth. Try to include specific examples or more context.")
	case score < 5:
		b.WriteString("Answer shows some understanding but could be improved with more concrete examples and specific details.")
	case score < 7:
		b.WriteString("Good answer with relevant content. Consider adding more specific examples or elaborating on key points.")
	case score < 9:
		b.WriteString("Excellent answer with good structure and relevant examples. Shows strong understanding of the topic.")
	default:
		b.WriteString("Outstanding answer. Very detailed, well-structured, and demonstrates excellent understanding of the concept with concrete examples.")
	}

	if exampleRe.MatchString(answer) {
		b.WriteString(" You provided good examples which strengthens your response.")
	}
	if challengeRe.MatchString(answer) {
		b.WriteString(" Your response shows you can reflect on challenges and growth.")
	}
	if teamworkRe.MatchString(answer) {
		b.WriteString(" Good emphasis on teamwork and collaboration.")
	}

	return b.String()
}

func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}
