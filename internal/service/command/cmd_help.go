package command

import (
	"context"
)

type HelpCommand struct {
	formatter *ResponseFormatter
}

func NewHelpCommand() *HelpCommand {
	return &HelpCommand{
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show available commands and example questions"
}

func (c *HelpCommand) Execute(ctx context.Context, threadID string, args []string) (string, error) {
	return c.formatter.Combine(
		c.formatter.Info("Help"),
		c.formatter.Section("📊", "Data questions", "Ask about your artists, tracks and listening habits"),
		c.formatter.Section("📘", "Documentation", "Ask about streaming concepts, popularity scores, the API"),
		c.formatter.Section("⌨️", "Commands", c.formatter.List([]string{
			"summary — conversation statistics",
			"clear — reset conversation history",
			"exit / quit — leave the chat",
		})),
	), nil
}
