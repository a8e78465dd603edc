package command

import (
	"github.com/sandevgo/tunebot/internal/core"
)

func NewCommands(store core.ConversationRepository) []core.Command {
	return []core.Command{
		NewHelpCommand(),
		NewSummaryCommand(store),
		NewClearCommand(store),
	}
}
