package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "hh",
	Short:         "HabitHub — local-first habit tracker with RPG progression",
	Long:          "HabitHub turns daily habits into quests: claiming them earns XP and gold,\ndriving levels, streaks, weekly bosses and long-term unlocks.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newTodayCmd(),
		newDoneCmd(),
		newUndoCmd(),
		newStatusCmd(),
		newProgressionCmd(),
		newChestCmd(),
		newVacationCmd(),
		newLogCmd(),
		newBoardCmd(),
		newWatchCmd(),
		newDebugDateCmd(),
		newResetCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
