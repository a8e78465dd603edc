package core

import "context"

// CmdRouter handles bare-word session commands (help, summary, clear).
// Execute returns handled=false when the input should be routed as a question.
type CmdRouter interface {
	Execute(ctx context.Context, threadID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, threadID string, args []string) (string, error)
}
