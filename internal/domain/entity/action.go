package entity

import (
	"fmt"
	"strings"
)

// ActionName identifies one of the browser operations the agent may request.
type ActionName string

const (
	ActionNavigate   ActionName = "navigate"
	ActionClick      ActionName = "click"
	ActionType       ActionName = "type"
	ActionGetText    ActionName = "get_text"
	ActionScreenshot ActionName = "screenshot"
)

// AllActions lists every recognized action in prompt order.
func AllActions() []ActionName {
	return []ActionName{
		ActionNavigate,
		ActionClick,
		ActionType,
		ActionGetText,
		ActionScreenshot,
	}
}

// ParseActionName normalizes and validates a raw action token from model
// output. The token is trimmed and lower-cased before matching.
func ParseActionName(raw string) (ActionName, error) {
	name := ActionName(strings.ToLower(strings.TrimSpace(raw)))
	switch name {
	case ActionNavigate, ActionClick, ActionType, ActionGetText, ActionScreenshot:
		return name, nil
	default:
		return "", fmt.Errorf("unrecognized action %q", raw)
	}
}

func (a ActionName) String() string {
	return string(a)
}

// ActionParams is the JSON-object argument mapping attached to an action.
type ActionParams map[string]any

// String returns the string value for key, reporting whether it was present
// and actually a string. JSON numbers and nulls do not count.
func (p ActionParams) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
