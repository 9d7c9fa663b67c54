// Package suggest generates kitchen suggestions (recipes, ingredient
// substitutions, leftover ideas) from a text-completion provider.
package suggest

import (
	"context"
	"errors"
)

// ErrUnexpectedResponse is returned when a provider answers without any text
var ErrUnexpectedResponse = errors.New("completion response has no text")

// Completer turns a prompt into generated text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
