package dashboard

import "context"

// Prompter asks for a value, `def` being the suggested one. ok is false when the prompt is cancelled.
type Prompter interface {
	Prompt(msg, def string) (value string, ok bool)
}

// PromptFunc adapts a function to a Prompter.
type PromptFunc func(msg, def string) (string, bool)

func (f PromptFunc) Prompt(msg, def string) (string, bool) { return f(msg, def) }

type prompterKey struct{}

// WithPrompter attaches `p` to ctx, for the note actions.
func WithPrompter(ctx context.Context, p Prompter) context.Context {
	return context.WithValue(ctx, prompterKey{}, p)
}

func PrompterFrom(ctx context.Context) Prompter {
	p, _ := ctx.Value(prompterKey{}).(Prompter)
	return p
}
