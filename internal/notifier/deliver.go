package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Deliverer hands a finished text to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, title, body string) error
}

// ConsoleDeliverer prints the titled block to a writer.
type ConsoleDeliverer struct {
	W io.Writer
}

func NewConsoleDeliverer(w io.Writer) *ConsoleDeliverer {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleDeliverer{W: w}
}

func (c *ConsoleDeliverer) Deliver(_ context.Context, title, body string) error {
	_, err := fmt.Fprintf(c.W, "\n=== %s ===\n\n%s\n\n===============================\n", strings.ToUpper(title), body)
	return err
}
