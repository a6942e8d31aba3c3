// Package prompts ships the agent's prompt text with the binary.
package prompts

import (
	_ "embed"
)

//go:embed system.txt
var SystemPrompt string
