package command

import (
	"github.com/pulsebit/pulsebot/internal/core"
)

func NewCommands(
	fresh core.FreshnessChecker,
	longterm core.LongTermReader,
	working core.WorkingMemory,
	switcher ModelSwitcher,
) []core.Command {
	cmds := []core.Command{
		NewStatusCommand(fresh),
		NewGoalsCommand(longterm),
		NewForgetCommand(working),
		NewModelCommand(switcher),
	}
	return append([]core.Command{NewHelpCommand(cmds)}, cmds...)
}
