package suggest

import (
	"context"
	"fmt"
	"strings"
)

// StaticCompleter answers every prompt locally without calling a provider.
// It is meant for demos and tests.
type StaticCompleter struct {
	Text string
}

// Complete returns Text, or a short numbered list derived from prompt
func (s StaticCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Text != "" {
		return s.Text, nil
	}

	subject := prompt
	if i := strings.Index(subject, ","); i > 0 {
		subject = subject[:i]
	}
	return fmt.Sprintf("1. Offline suggestion (%s)\n2. Configure a completion provider for tailored ideas.", subject), nil
}
