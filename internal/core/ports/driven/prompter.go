package driven

import "context"

// PromptRequest describes a single line of interactive input.
type PromptRequest struct {
	// Label is shown to the user.
	Label string

	// Placeholder hints at an example value. It is never used as a default.
	Placeholder string
}

// Prompter asks the user for a single value.
// An empty result means the user cancelled or gave nothing.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (string, error)
}
