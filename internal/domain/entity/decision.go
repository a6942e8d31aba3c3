package entity

// DecisionKind discriminates the two well-formed outcomes of parsing a model
// reply. A reply that fits neither is a parse failure and never becomes a
// Decision.
type DecisionKind string

const (
	DecisionAction      DecisionKind = "action"
	DecisionFinalAnswer DecisionKind = "final_answer"
)

// Decision is the structured intent extracted from one model reply. Exactly
// one of the two cases is populated, selected by Kind: either an action with
// its parameters, or a final answer. Thought accompanies either case.
type Decision struct {
	Kind        DecisionKind
	Thought     string
	Action      ActionName
	Params      ActionParams
	FinalAnswer string
}

// NewActionDecision builds the action case.
func NewActionDecision(thought string, action ActionName, params ActionParams) Decision {
	if params == nil {
		params = ActionParams{}
	}
	return Decision{
		Kind:    DecisionAction,
		Thought: thought,
		Action:  action,
		Params:  params,
	}
}

// NewFinalAnswerDecision builds the final-answer case.
func NewFinalAnswerDecision(answer string) Decision {
	return Decision{
		Kind:        DecisionFinalAnswer,
		FinalAnswer: answer,
	}
}

func (d Decision) IsFinal() bool {
	return d.Kind == DecisionFinalAnswer
}
