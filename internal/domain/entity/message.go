package entity

import "strings"

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role    MessageRole
	Content string
}

// Transcript is the ordered record of one run: the system framing, the task,
// each model reply and each observation. It is append-only while the run is
// alive and owned exclusively by the loop.
type Transcript struct {
	messages []Message
}

func NewTranscript(systemPrompt, task string) *Transcript {
	return &Transcript{
		messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: "Task: " + task},
		},
	}
}

func (t *Transcript) AppendAssistant(content string) {
	t.messages = append(t.messages, Message{Role: RoleAssistant, Content: content})
}

func (t *Transcript) AppendUser(content string) {
	t.messages = append(t.messages, Message{Role: RoleUser, Content: content})
}

// Messages returns a copy so callers cannot mutate the record.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Render flattens the transcript into readable text, used when an exhausted
// or aborted run hands the conversation back for diagnosis.
func (t *Transcript) Render() string {
	var b strings.Builder
	for i, msg := range t.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[" + string(msg.Role) + "] ")
		b.WriteString(msg.Content)
	}
	return b.String()
}
