package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/planpatch/planpatch/internal/genloop"
	"github.com/planpatch/planpatch/pkg/types"
)

type fakeStore struct {
	files     map[string]string
	writeErr  error
	deleteErr error
}

func newFakeStore(files map[string]string) *fakeStore {
	if files == nil {
		files = make(map[string]string)
	}
	return &fakeStore{files: files}
}

func (s *fakeStore) Read(rel string) (string, error) {
	content, ok := s.files[rel]
	if !ok {
		return "", errors.New("not found")
	}
	return content, nil
}

func (s *fakeStore) Write(rel, content string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.files[rel] = content
	return nil
}

func (s *fakeStore) Delete(rel string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.files, rel)
	return nil
}

type fakeRunner struct {
	content string
	failOn  string // file path whose generation always fails
	calls   []string
}

func (r *fakeRunner) Run(_ context.Context, _ string, step types.PlanStep, _ string) (genloop.Result, error) {
	r.calls = append(r.calls, step.File)
	if r.failOn != "" && step.File == r.failOn {
		return genloop.Result{}, errors.New("generation unavailable")
	}
	return genloop.Result{Content: r.content, Review: types.ReviewResult{Score: 8}, Attempts: 1}, nil
}

func TestApplyWritesGeneratedContent(t *testing.T) {
	store := newFakeStore(nil)
	runner := &fakeRunner{content: "export const x = 1;"}
	steps := []types.PlanStep{
		{Action: types.ActionCreate, File: "src/x.ts", Description: "add x"},
	}

	result := New(store, runner).Apply(context.Background(), steps, "ctx")

	if store.files["src/x.ts"] != "export const x = 1;" {
		t.Errorf("file content = %q", store.files["src/x.ts"])
	}
	if len(result.ModifiedFiles) != 1 || result.ModifiedFiles[0] != "src/x.ts" {
		t.Errorf("ModifiedFiles = %v", result.ModifiedFiles)
	}
	if result.FailedSteps != 0 {
		t.Errorf("FailedSteps = %d", result.FailedSteps)
	}
}

func TestApplyFaultIsolation(t *testing.T) {
	store := newFakeStore(nil)
	runner := &fakeRunner{content: "ok", failOn: "src/b.ts"}
	steps := []types.PlanStep{
		{Action: types.ActionCreate, File: "src/a.ts", Description: "first"},
		{Action: types.ActionCreate, File: "src/b.ts", Description: "middle fails"},
		{Action: types.ActionCreate, File: "src/c.ts", Description: "third"},
	}

	result := New(store, runner).Apply(context.Background(), steps, "ctx")

	// All three steps attempted despite the middle failure.
	if len(runner.calls) != 3 {
		t.Errorf("runner calls = %v", runner.calls)
	}
	if result.FailedSteps != 1 {
		t.Errorf("FailedSteps = %d", result.FailedSteps)
	}
	want := []string{"src/a.ts", "src/c.ts"}
	if len(result.ModifiedFiles) != 2 || result.ModifiedFiles[0] != want[0] || result.ModifiedFiles[1] != want[1] {
		t.Errorf("ModifiedFiles = %v", result.ModifiedFiles)
	}
	if !logContains(result.Log, "generation unavailable") {
		t.Errorf("failure missing from log: %v", result.Log.Entries)
	}
}

func TestApplyDelete(t *testing.T) {
	store := newFakeStore(map[string]string{"src/old.ts": "dead"})
	steps := []types.PlanStep{
		{Action: types.ActionDelete, File: "src/old.ts", Description: "remove"},
	}

	result := New(store, &fakeRunner{}).Apply(context.Background(), steps, "ctx")

	if _, ok := store.files["src/old.ts"]; ok {
		t.Error("file not deleted")
	}
	if len(result.ModifiedFiles) != 1 || result.ModifiedFiles[0] != "src/old.ts" {
		t.Errorf("ModifiedFiles = %v", result.ModifiedFiles)
	}
}

func TestApplyModifyPassesOriginalAndLogsDiff(t *testing.T) {
	store := newFakeStore(map[string]string{"app/page.tsx": "old content"})
	runner := &fakeRunner{content: "new content"}
	steps := []types.PlanStep{
		{Action: types.ActionModify, File: "app/page.tsx", Description: "refresh"},
	}

	result := New(store, runner).Apply(context.Background(), steps, "ctx")

	if store.files["app/page.tsx"] != "new content" {
		t.Errorf("content = %q", store.files["app/page.tsx"])
	}
	if !logContains(result.Log, "chars") {
		t.Errorf("diff summary missing: %v", result.Log.Entries)
	}
	if !logContains(result.Log, "generating code for app/page.tsx") {
		t.Errorf("generation phase missing: %v", result.Log.Entries)
	}
}

func TestApplyWriteFailureCounts(t *testing.T) {
	store := newFakeStore(nil)
	store.writeErr = errors.New("disk full")
	steps := []types.PlanStep{
		{Action: types.ActionCreate, File: "src/x.ts", Description: "add"},
	}

	result := New(store, &fakeRunner{content: "x"}).Apply(context.Background(), steps, "ctx")

	if result.FailedSteps != 1 || len(result.ModifiedFiles) != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestApplyLogsStepWarnings(t *testing.T) {
	store := newFakeStore(nil)
	steps := []types.PlanStep{
		{
			Action: types.ActionCreate, File: "src/x.ts", Description: "add",
			Warnings: []string{"x uses kebab-case naming"},
		},
	}

	result := New(store, &fakeRunner{content: "x"}).Apply(context.Background(), steps, "ctx")
	if !logContains(result.Log, "kebab-case") {
		t.Errorf("warning missing from log: %v", result.Log.Entries)
	}
}

func logContains(log *types.ExecutionLog, sub string) bool {
	for _, e := range log.Entries {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}
