// Package runner holds the ReAct control loop: ask the model for the next
// step, parse it, act, feed the observation back, and stop on a final answer,
// an exhausted iteration budget, or an unrecoverable error.
package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"webagent/internal/application/port/input"
	"webagent/internal/application/port/output"
	"webagent/internal/domain/entity"
	"webagent/internal/usecase/parser"

	"github.com/google/uuid"
)

var _ input.TaskRunner = (*Runner)(nil)

const (
	DefaultMaxIterations     = 10
	DefaultParseFailureLimit = 3

	// Observations are capped so one oversized page extract cannot crowd the
	// model's context out.
	maxObservationLen = 20000

	recoveryHint = "Please provide a valid action in the specified format."
)

// ActionExecutor dispatches one parsed action and always comes back with a
// result value, success or not.
type ActionExecutor interface {
	Execute(ctx context.Context, action entity.ActionName, params entity.ActionParams) entity.ActionResult
}

type Config struct {
	SystemPrompt string
	// MaxIterations bounds the loop; zero or negative falls back to the
	// default of 10.
	MaxIterations int
	// ParseFailureLimit caps consecutive unparseable replies before the run
	// aborts; zero or negative falls back to the default of 3.
	ParseFailureLimit int
}

type Runner struct {
	llm               output.LLMPort
	executor          ActionExecutor
	logger            output.LoggerPort
	systemPrompt      string
	maxIterations     int
	parseFailureLimit int
}

func New(llm output.LLMPort, executor ActionExecutor, logger output.LoggerPort, cfg Config) *Runner {
	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	parseFailureLimit := cfg.ParseFailureLimit
	if parseFailureLimit <= 0 {
		parseFailureLimit = DefaultParseFailureLimit
	}

	return &Runner{
		llm:               llm,
		executor:          executor,
		logger:            logger,
		systemPrompt:      cfg.SystemPrompt,
		maxIterations:     maxIterations,
		parseFailureLimit: parseFailureLimit,
	}
}

// Run drives one task to a terminal state. The returned RunResult always
// carries the terminal status; the error is non-nil only when the run
// aborted, and names the cause.
func (r *Runner) Run(ctx context.Context, task string) (*entity.RunResult, error) {
	runID := uuid.NewString()
	log := r.logger.WithField("run_id", runID)
	log.Info("run started", "task", task, "max_iterations", r.maxIterations)

	transcript := entity.NewTranscript(r.systemPrompt, task)
	consecutiveParseFailures := 0

	for iteration := 1; iteration <= r.maxIterations; iteration++ {
		log.Debug("iteration started", "iteration", iteration)

		reply, err := r.llm.Complete(ctx, transcript.Messages())
		if err != nil {
			log.Error("model request failed", "iteration", iteration, "error", err)
			return r.aborted(runID, transcript, iteration), fmt.Errorf("model request failed: %w", err)
		}
		transcript.AppendAssistant(reply)

		decision, err := parser.Parse(reply)
		if err != nil {
			consecutiveParseFailures++
			log.Warn("unparseable reply",
				"iteration", iteration,
				"error", err,
				"consecutive_failures", consecutiveParseFailures,
			)
			if consecutiveParseFailures >= r.parseFailureLimit {
				return r.aborted(runID, transcript, iteration),
					fmt.Errorf("%d consecutive unparseable replies, last: %w", consecutiveParseFailures, err)
			}
			// The model gets the diagnostic back and a chance to recover.
			transcript.AppendUser(fmt.Sprintf("Observation: could not parse your reply (%v). %s", err, recoveryHint))
			continue
		}
		consecutiveParseFailures = 0

		if decision.IsFinal() {
			log.Info("run completed", "iterations", iteration)
			return &entity.RunResult{
				RunID:       runID,
				Status:      entity.StatusCompleted,
				FinalAnswer: decision.FinalAnswer,
				Iterations:  iteration,
				Transcript:  transcript.Render(),
			}, nil
		}

		result := r.executor.Execute(ctx, decision.Action, decision.Params)
		transcript.AppendUser(renderObservation(result))
	}

	log.Warn("iteration budget exhausted", "max_iterations", r.maxIterations)
	return &entity.RunResult{
		RunID:      runID,
		Status:     entity.StatusExhausted,
		Iterations: r.maxIterations,
		Transcript: transcript.Render(),
	}, nil
}

func (r *Runner) aborted(runID string, transcript *entity.Transcript, iteration int) *entity.RunResult {
	return &entity.RunResult{
		RunID:      runID,
		Status:     entity.StatusAborted,
		Iterations: iteration,
		Transcript: transcript.Render(),
	}
}

// renderObservation serializes the action outcome as JSON, the same shape the
// system prompt promises the model.
func renderObservation(result entity.ActionResult) string {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("Observation: {\"success\":%t,\"result\":\"unserializable result\"}", result.Success)
	}
	obs := string(data)
	if len(obs) > maxObservationLen {
		obs = obs[:maxObservationLen] + "... (truncated)"
	}
	return "Observation: " + obs
}
