package core

import "context"

// CmdRouter intercepts slash commands before a message reaches the
// supervisor. Execute reports handled=false for plain queries.
type CmdRouter interface {
	Execute(ctx context.Context, threadID, userID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, threadID, userID string, args []string) (string, error)
}
