package runner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"webagent/internal/application/port/output"
	"webagent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLLM replays scripted replies; once the script runs out it repeats the
// last one.
type stubLLM struct {
	replies []string
	err     error
	calls   int
	prompts [][]entity.Message
}

func (s *stubLLM) Complete(_ context.Context, messages []entity.Message) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, messages)
	if s.err != nil {
		return "", s.err
	}
	idx := s.calls - 1
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	return s.replies[idx], nil
}

type stubExecutor struct {
	results []entity.ActionResult
	calls   []entity.ActionName
}

func (s *stubExecutor) Execute(_ context.Context, action entity.ActionName, _ entity.ActionParams) entity.ActionResult {
	s.calls = append(s.calls, action)
	if len(s.results) == 0 {
		return entity.ActionOK("ok")
	}
	result := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return result
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                      {}
func (nopLogger) Info(string, ...any)                       {}
func (nopLogger) Warn(string, ...any)                       {}
func (nopLogger) Error(string, ...any)                      {}
func (l nopLogger) WithField(string, any) output.LoggerPort { return l }
func (nopLogger) Close() error                              { return nil }

func newRunner(llm *stubLLM, exec *stubExecutor, cfg Config) *Runner {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = "You are a browser automation agent."
	}
	return New(llm, exec, nopLogger{}, cfg)
}

func TestRun_ImmediateFinalAnswer(t *testing.T) {
	llm := &stubLLM{replies: []string{"Final Answer: done"}}
	exec := &stubExecutor{}

	result, err := newRunner(llm, exec, Config{}).Run(context.Background(), "say done")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, result.Status)
	assert.Equal(t, "done", result.FinalAnswer)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, 1, llm.calls)
	assert.Empty(t, exec.calls, "no action may be dispatched for a final answer")
	assert.NotEmpty(t, result.RunID)
}

func TestRun_ExhaustsIterationBudgetExactly(t *testing.T) {
	llm := &stubLLM{replies: []string{
		"Thought: keep going\nAction: screenshot\nAction Input: {}",
	}}
	exec := &stubExecutor{}

	result, err := newRunner(llm, exec, Config{MaxIterations: 4}).Run(context.Background(), "never finish")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusExhausted, result.Status)
	assert.Equal(t, 4, result.Iterations)
	assert.Equal(t, 4, llm.calls)
	assert.Len(t, exec.calls, 4)
	assert.NotEmpty(t, result.Transcript)
}

func TestRun_ActionThenFinalAnswer(t *testing.T) {
	llm := &stubLLM{replies: []string{
		"Thought: open the page\nAction: navigate\nAction Input: {\"url\": \"https://example.com\"}",
		"Final Answer: the heading is Example Domain",
	}}
	exec := &stubExecutor{}

	result, err := newRunner(llm, exec, Config{}).Run(context.Background(), "read the heading")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, result.Status)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, []entity.ActionName{entity.ActionNavigate}, exec.calls)

	// The second prompt must contain the observation for the first action.
	require.Len(t, llm.prompts, 2)
	last := llm.prompts[1][len(llm.prompts[1])-1]
	assert.Equal(t, entity.RoleUser, last.Role)
	assert.True(t, strings.HasPrefix(last.Content, "Observation: "), last.Content)
	assert.Contains(t, last.Content, `"success":true`)
}

func TestRun_FailedActionIsReportedNotFatal(t *testing.T) {
	llm := &stubLLM{replies: []string{
		"Action: click\nAction Input: {\"selector\": \"#missing\"}",
		"Final Answer: gave up on the button",
	}}
	exec := &stubExecutor{results: []entity.ActionResult{
		entity.ActionFailed("element not found: #missing"),
	}}

	result, err := newRunner(llm, exec, Config{}).Run(context.Background(), "click it")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, result.Status)
	last := llm.prompts[1][len(llm.prompts[1])-1]
	assert.Contains(t, last.Content, `"success":false`)
	assert.Contains(t, last.Content, "element not found")
}

func TestRun_ParseFailureRecovers(t *testing.T) {
	llm := &stubLLM{replies: []string{
		"I'm thinking out loud without any action here.",
		"Final Answer: recovered",
	}}
	exec := &stubExecutor{}

	result, err := newRunner(llm, exec, Config{}).Run(context.Background(), "recover")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, result.Status)
	assert.Equal(t, "recovered", result.FinalAnswer)

	last := llm.prompts[1][len(llm.prompts[1])-1]
	assert.Contains(t, last.Content, "could not parse")
	assert.Contains(t, last.Content, "valid action")
}

func TestRun_ConsecutiveParseFailuresAbort(t *testing.T) {
	llm := &stubLLM{replies: []string{"no structure at all"}}
	exec := &stubExecutor{}

	result, err := newRunner(llm, exec, Config{ParseFailureLimit: 2}).Run(context.Background(), "abort")
	require.Error(t, err)

	assert.Equal(t, entity.StatusAborted, result.Status)
	assert.Contains(t, err.Error(), "unparseable")
	assert.Equal(t, 2, llm.calls)
}

func TestRun_ParseFailureCounterResetsOnGoodReply(t *testing.T) {
	llm := &stubLLM{replies: []string{
		"garbage one",
		"Action: screenshot\nAction Input: {}",
		"garbage two",
		"Final Answer: done",
	}}
	exec := &stubExecutor{}

	result, err := newRunner(llm, exec, Config{ParseFailureLimit: 2}).Run(context.Background(), "reset")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, result.Status)
}

func TestRun_ModelErrorAborts(t *testing.T) {
	llm := &stubLLM{err: errors.New("401 unauthorized")}
	exec := &stubExecutor{}

	result, err := newRunner(llm, exec, Config{}).Run(context.Background(), "fail fast")
	require.Error(t, err)

	assert.Equal(t, entity.StatusAborted, result.Status)
	assert.Contains(t, err.Error(), "model request failed")
	assert.Equal(t, 1, llm.calls)
	assert.Empty(t, exec.calls)
}

func TestRun_PromptContainsSystemFramingAndTask(t *testing.T) {
	llm := &stubLLM{replies: []string{"Final Answer: ok"}}
	exec := &stubExecutor{}

	_, err := newRunner(llm, exec, Config{SystemPrompt: "framing text"}).Run(context.Background(), "the task")
	require.NoError(t, err)

	first := llm.prompts[0]
	require.Len(t, first, 2)
	assert.Equal(t, entity.RoleSystem, first[0].Role)
	assert.Equal(t, "framing text", first[0].Content)
	assert.Equal(t, entity.RoleUser, first[1].Role)
	assert.Equal(t, "Task: the task", first[1].Content)
}
