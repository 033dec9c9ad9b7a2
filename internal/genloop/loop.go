// Package genloop drives one plan step through generate, review and
// bounded retry. The loop is an explicit state machine: attempts are
// capped, the best-scoring candidate is tracked across attempts, and the
// accepted content is the best seen, not necessarily the last produced.
package genloop

import (
	"context"
	"fmt"

	"github.com/planpatch/planpatch/internal/llm"
	"github.com/planpatch/planpatch/pkg/types"
)

// DefaultMaxAttempts is the generation ceiling per step.
const DefaultMaxAttempts = 3

// Completer is the completion surface the loop needs; llm.Client
// satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Loop runs the generate-review cycle for plan steps.
type Loop struct {
	client      Completer
	maxAttempts int
	progress    func(string)
}

// Option adjusts a Loop.
type Option func(*Loop)

// WithMaxAttempts overrides the attempt ceiling.
func WithMaxAttempts(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

// WithProgress registers a sink for per-phase progress lines.
func WithProgress(fn func(string)) Option {
	return func(l *Loop) { l.progress = fn }
}

// New builds a Loop around a completion client.
func New(client Completer, opts ...Option) *Loop {
	l := &Loop{
		client:      client,
		maxAttempts: DefaultMaxAttempts,
		progress:    func(string) {},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is the accepted outcome for one step.
type Result struct {
	Content  string
	Review   types.ReviewResult
	Attempts int
}

// Run generates content for a create/modify step until review accepts it
// or the attempt ceiling is reached. Generation and review transport
// failures propagate immediately; quality problems and unparsable review
// output never do.
func (l *Loop) Run(ctx context.Context, contextText string, step types.PlanStep, originalContent string) (Result, error) {
	var best Result
	bestScore := -1

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		l.progress(fmt.Sprintf("generating %s (attempt %d/%d)", step.File, attempt, l.maxAttempts))

		raw, err := l.client.Complete(ctx, llm.GenerationPrompt(contextText, step, originalContent))
		if err != nil {
			return Result{}, fmt.Errorf("generate %s: %w", step.File, err)
		}
		content := llm.StripCodeFence(raw)

		l.progress(fmt.Sprintf("reviewing %s", step.File))
		reviewRaw, err := l.client.Complete(ctx, llm.ReviewPrompt(contextText, step, content))
		if err != nil {
			return Result{}, fmt.Errorf("review %s: %w", step.File, err)
		}
		review, parsed := llm.ParseReview(reviewRaw)
		if !parsed {
			l.progress(fmt.Sprintf("review for %s was unparsable, using degraded result", step.File))
		}

		if review.Score > bestScore {
			bestScore = review.Score
			best = Result{Content: content, Review: review}
		}
		best.Attempts = attempt

		if !review.ShouldRegenerate {
			return best, nil
		}
		l.progress(fmt.Sprintf("review scored %d/10 and requested regeneration", review.Score))
	}

	// Ceiling reached: accept the best candidate unconditionally.
	return best, nil
}
