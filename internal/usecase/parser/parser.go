// Package parser extracts a structured Decision from free-form model text
// following the ReAct convention:
//
//	Thought: <reasoning>
//	Action: <name>
//	Action Input: <JSON object>
//
// or, when the task is done:
//
//	Final Answer: <text>
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"webagent/internal/domain/entity"
)

// Parse failures are distinguishable so the loop can report the exact reason
// back to the model instead of guessing a default action.
var (
	// ErrNoDecision means the reply contains neither an Action nor a
	// Final Answer marker.
	ErrNoDecision = errors.New("reply contains no action and no final answer")
	// ErrUnknownAction means the Action token is not one of the recognized
	// action names.
	ErrUnknownAction = errors.New("unknown action name")
	// ErrInvalidActionInput means the Action Input section is not valid JSON.
	ErrInvalidActionInput = errors.New("action input is not valid JSON")
	// ErrActionInputNotObject means the Action Input parsed as JSON but is
	// not an object.
	ErrActionInputNotObject = errors.New("action input is not a JSON object")
)

const (
	markerThought     = "Thought:"
	markerAction      = "Action:"
	markerActionInput = "Action Input:"
	markerFinalAnswer = "Final Answer:"
)

// Parse turns one raw model reply into a Decision. Markers are matched as
// case-sensitive line prefixes. A Final Answer takes precedence over any
// Action section also present in the same reply; this tie-break is
// deliberate, since a model that answers and keeps acting has answered.
func Parse(reply string) (entity.Decision, error) {
	lines := strings.Split(strings.TrimSpace(reply), "\n")

	if answer, ok := extractFinalAnswer(lines); ok {
		return entity.NewFinalAnswerDecision(answer), nil
	}

	var (
		thought     string
		actionRaw   string
		actionFound bool
		inputRaw    string
		inputFound  bool
	)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(line, markerThought):
			thought = strings.TrimSpace(strings.TrimPrefix(line, markerThought))

		case strings.HasPrefix(line, markerActionInput):
			inputFound = true
			parts := []string{strings.TrimSpace(strings.TrimPrefix(line, markerActionInput))}
			// JSON objects often span lines; gather until the next marker.
			for i+1 < len(lines) && !isMarkerLine(strings.TrimSpace(lines[i+1])) {
				i++
				parts = append(parts, strings.TrimSpace(lines[i]))
			}
			inputRaw = strings.Join(parts, "\n")

		case strings.HasPrefix(line, markerAction):
			actionFound = true
			actionRaw = strings.TrimSpace(strings.TrimPrefix(line, markerAction))
		}
	}

	if !actionFound {
		return entity.Decision{}, ErrNoDecision
	}

	action, err := entity.ParseActionName(actionRaw)
	if err != nil {
		return entity.Decision{}, fmt.Errorf("%w: %q", ErrUnknownAction, actionRaw)
	}

	params := entity.ActionParams{}
	if inputFound && strings.TrimSpace(inputRaw) != "" {
		params, err = parseActionInput(inputRaw)
		if err != nil {
			return entity.Decision{}, err
		}
	}

	return entity.NewActionDecision(thought, action, params), nil
}

// extractFinalAnswer returns the text of the first Final Answer block: the
// remainder of the marker line plus following lines up to the next marker.
func extractFinalAnswer(lines []string) (string, bool) {
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, markerFinalAnswer) {
			continue
		}
		parts := []string{strings.TrimSpace(strings.TrimPrefix(line, markerFinalAnswer))}
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if isMarkerLine(next) {
				break
			}
			parts = append(parts, next)
		}
		return strings.TrimSpace(strings.Join(parts, "\n")), true
	}
	return "", false
}

func isMarkerLine(line string) bool {
	return strings.HasPrefix(line, markerThought) ||
		strings.HasPrefix(line, markerAction) ||
		strings.HasPrefix(line, markerActionInput) ||
		strings.HasPrefix(line, markerFinalAnswer)
}

// parseActionInput unmarshals the gathered input as a JSON object. When the
// model wraps the object in prose or a code fence, it falls back to the
// outermost brace pair before giving up.
func parseActionInput(raw string) (entity.ActionParams, error) {
	candidate := strings.TrimSpace(raw)

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		extracted, ok := extractBraced(candidate)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidActionInput, truncate(candidate, 200))
		}
		if err := json.Unmarshal([]byte(extracted), &value); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidActionInput, truncate(candidate, 200))
		}
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrActionInputNotObject, value)
	}
	return entity.ActionParams(obj), nil
}

func extractBraced(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
