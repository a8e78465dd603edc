package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tunebot/internal/core"
)

// Router dispatches bare-word session commands. Anything that is not a
// single registered command word is left for the question pipeline.
type Router struct {
	commands map[string]core.Command
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

func (c *Router) Execute(ctx context.Context, threadID, input string) (string, bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) != 1 {
		return "", false
	}

	cmd, ok := c.commands[fields[0]]
	if !ok {
		return "", false
	}

	result, err := cmd.Execute(ctx, threadID, nil)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	return res
}
