// Package executor applies parsed plan steps to a workspace, one at a
// time and strictly in order. Failures are isolated per step: a failing
// step is logged and skipped, later steps still run, and the modified
// set only records paths that were actually written or deleted.
package executor

import (
	"context"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/planpatch/planpatch/internal/genloop"
	"github.com/planpatch/planpatch/pkg/types"
)

// FileStore is the workspace surface the executor needs;
// *sandbox.Workspace satisfies it.
type FileStore interface {
	Read(rel string) (string, error)
	Write(rel, content string) error
	Delete(rel string) error
}

// StepRunner produces accepted content for one create/modify step;
// *genloop.Loop satisfies it.
type StepRunner interface {
	Run(ctx context.Context, contextText string, step types.PlanStep, originalContent string) (genloop.Result, error)
}

// Executor sequences plan application.
type Executor struct {
	store  FileStore
	runner StepRunner
}

// New builds an Executor over a file store and a generation runner.
func New(store FileStore, runner StepRunner) *Executor {
	return &Executor{store: store, runner: runner}
}

// Apply runs every step in order and returns the aggregated result.
// Apply itself never fails; per-step errors land in the log.
func (e *Executor) Apply(ctx context.Context, steps []types.PlanStep, contextText string) *types.ExecutionResult {
	result := &types.ExecutionResult{Log: &types.ExecutionLog{}}

	for i, step := range steps {
		result.Log.Append(fmt.Sprintf("step %d/%d: %s %s: %s", i+1, len(steps), step.Action, step.File, step.Description))
		for _, w := range step.Warnings {
			result.Log.Append(fmt.Sprintf("warning: %s", w))
		}

		switch step.Action {
		case types.ActionCreate, types.ActionModify:
			e.applyGeneration(ctx, step, contextText, result)
		case types.ActionDelete:
			if err := e.store.Delete(step.File); err != nil {
				result.Log.Append(fmt.Sprintf("error on %s: %v", step.File, err))
				result.FailedSteps++
				continue
			}
			result.Log.Append(fmt.Sprintf("deleted %s", step.File))
			result.ModifiedFiles = append(result.ModifiedFiles, step.File)
		default:
			result.Log.Append(fmt.Sprintf("skipping unknown action %q for %s", step.Action, step.File))
			result.FailedSteps++
		}
	}

	return result
}

func (e *Executor) applyGeneration(ctx context.Context, step types.PlanStep, contextText string, result *types.ExecutionResult) {
	original := ""
	if step.Action == types.ActionModify {
		content, err := e.store.Read(step.File)
		if err != nil {
			// A modify target that cannot be read is generated from scratch.
			result.Log.Append(fmt.Sprintf("could not read %s, generating without original content", step.File))
		} else {
			original = content
		}
	}

	result.Log.Append(fmt.Sprintf("generating code for %s", step.File))
	generated, err := e.runner.Run(ctx, contextText, step, original)
	if err != nil {
		result.Log.Append(fmt.Sprintf("error on %s: %v", step.File, err))
		result.FailedSteps++
		return
	}
	result.Log.Append(fmt.Sprintf("review scored %d/10 after %d attempt(s)", generated.Review.Score, generated.Attempts))

	if err := e.store.Write(step.File, generated.Content); err != nil {
		result.Log.Append(fmt.Sprintf("error on %s: %v", step.File, err))
		result.FailedSteps++
		return
	}

	verb := "created"
	if step.Action == types.ActionModify {
		verb = "modified"
	}
	if step.Action == types.ActionModify && original != "" {
		result.Log.Append(fmt.Sprintf("%s %s (%s)", verb, step.File, diffSummary(original, generated.Content)))
	} else {
		result.Log.Append(fmt.Sprintf("%s %s", verb, step.File))
	}
	result.ModifiedFiles = append(result.ModifiedFiles, step.File)
}

// diffSummary reports the change size between two file versions.
func diffSummary(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)

	added, removed := 0, 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += len(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += len(d.Text)
		}
	}
	return fmt.Sprintf("+%d/-%d chars", added, removed)
}
