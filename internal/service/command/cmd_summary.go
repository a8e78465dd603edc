package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/tunebot/internal/core"
)

type SummaryCommand struct {
	store     core.ConversationRepository
	formatter *ResponseFormatter
}

func NewSummaryCommand(store core.ConversationRepository) *SummaryCommand {
	return &SummaryCommand{
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *SummaryCommand) Name() string {
	return "summary"
}

func (c *SummaryCommand) Description() string {
	return "Show statistics for the current conversation"
}

func (c *SummaryCommand) Execute(ctx context.Context, threadID string, args []string) (string, error) {
	messages, err := c.store.Load(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to load thread: %w", err)
	}

	if len(messages) == 0 {
		return "No conversation history yet.", nil
	}

	var userTurns, assistantTurns int
	for _, msg := range messages {
		switch msg.Role {
		case core.RoleUser:
			userTurns++
		case core.RoleAssistant:
			assistantTurns++
		}
	}

	return c.formatter.Combine(
		c.formatter.Info("Conversation Summary"),
		c.formatter.Label("Thread", threadID),
		c.formatter.Label("Total messages", fmt.Sprintf("%d", len(messages))),
		c.formatter.Label("User messages", fmt.Sprintf("%d", userTurns)),
		c.formatter.Label("Assistant responses", fmt.Sprintf("%d", assistantTurns)),
	), nil
}
