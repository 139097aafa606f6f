package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aleister1102/rankwatch/internal/common"
)

const consoleSeparatorWidth = 72

// ConsoleNotifier prints snapshot messages to stdout, separated by a
// dashed line so consecutive snapshots are easy to tell apart.
type ConsoleNotifier struct {
	out    io.Writer
	logger zerolog.Logger
}

// NewConsoleNotifier creates a ConsoleNotifier writing to stdout.
func NewConsoleNotifier(logger zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:    os.Stdout,
		logger: logger.With().Str("component", "ConsoleNotifier").Logger(),
	}
}

// Notify prints the message followed by a separator line.
func (cn *ConsoleNotifier) Notify(_ context.Context, message string) error {
	if _, err := fmt.Fprintln(cn.out, message); err != nil {
		return common.NewNotifyError("console", "failed to write message", err)
	}
	if _, err := fmt.Fprintln(cn.out, strings.Repeat("-", consoleSeparatorWidth)); err != nil {
		return common.NewNotifyError("console", "failed to write separator", err)
	}
	return nil
}
