package domain

// RefinementState is the position of a prompt refinement cycle.
type RefinementState int

const (
	// RefinementIdle means no cycle has started.
	RefinementIdle RefinementState = iota
	// RefinementAwaitingQuestions means a prompt was submitted and the
	// clarifying questions have not arrived yet.
	RefinementAwaitingQuestions
	// RefinementAwaitingAnswers means questions are available for display.
	RefinementAwaitingAnswers
	// RefinementOptimized means the final optimised prompt is available.
	RefinementOptimized
	// RefinementError means the last submit failed.
	RefinementError
)

// String returns the string representation of the state.
func (s RefinementState) String() string {
	switch s {
	case RefinementIdle:
		return "idle"
	case RefinementAwaitingQuestions:
		return "awaiting_questions"
	case RefinementAwaitingAnswers:
		return "awaiting_answers"
	case RefinementOptimized:
		return "optimized"
	case RefinementError:
		return "error"
	default:
		return "unknown"
	}
}

// RefinementSession holds the conversation between submit and answer.
// It lives only in memory and is replaced on every new submit.
type RefinementSession struct {
	OriginalPrompt      string
	ClarifyingQuestions []string
}

// IsComplete returns true once both the prompt and the questions are set,
// which is the precondition for submitting answers.
func (s *RefinementSession) IsComplete() bool {
	return s != nil && s.OriginalPrompt != "" && len(s.ClarifyingQuestions) > 0
}

// Clone returns a copy that shares no memory with s.
func (s RefinementSession) Clone() RefinementSession {
	questions := make([]string, len(s.ClarifyingQuestions))
	copy(questions, s.ClarifyingQuestions)
	return RefinementSession{
		OriginalPrompt:      s.OriginalPrompt,
		ClarifyingQuestions: questions,
	}
}

// OptimizedPrompt is the final result of a refinement cycle.
type OptimizedPrompt struct {
	OptimizedPrompt string `json:"optimizedPrompt"`
	KeyImprovements string `json:"keyImprovements,omitempty"`
}
