package entity

// ActionResult is the normalized outcome of one browser action. It is always
// a value, never a fault: failed actions carry their detail in Result so the
// model can read what went wrong and adapt.
type ActionResult struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

func ActionOK(result string) ActionResult {
	return ActionResult{Success: true, Result: result}
}

func ActionFailed(detail string) ActionResult {
	return ActionResult{Success: false, Result: detail}
}

// RunStatus is the terminal state of a task run.
type RunStatus string

const (
	// StatusCompleted means the model emitted a final answer.
	StatusCompleted RunStatus = "completed"
	// StatusExhausted means the iteration budget ran out without an answer.
	StatusExhausted RunStatus = "exhausted"
	// StatusAborted means an unrecoverable collaborator error or repeated
	// malformed replies stopped the run early.
	StatusAborted RunStatus = "aborted"
)

// RunResult is what a finished run hands back: an identifier, the terminal
// status, the answer when there is one, and the transcript for diagnosis.
type RunResult struct {
	RunID       string
	Status      RunStatus
	FinalAnswer string
	Iterations  int
	Transcript  string
}
