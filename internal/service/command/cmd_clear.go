package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/tunebot/internal/core"
)

type ClearCommand struct {
	store     core.ConversationRepository
	formatter *ResponseFormatter
}

func NewClearCommand(store core.ConversationRepository) *ClearCommand {
	return &ClearCommand{
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Description() string {
	return "Clear the current conversation history"
}

func (c *ClearCommand) Execute(ctx context.Context, threadID string, args []string) (string, error) {
	if err := c.store.Clear(ctx, threadID); err != nil {
		return "", fmt.Errorf("failed to clear thread: %w", err)
	}
	return c.formatter.Success("Conversation history cleared"), nil
}
