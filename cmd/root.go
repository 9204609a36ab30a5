// Package cmd is the soundpad command line.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute runs the command line until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &commandContext{}
	defer c.close()
	return newRootCommand(c).ExecuteContext(ctx)
}

func newRootCommand(c *commandContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "soundpad",
		Short: "A terminal soundboard",
		Long: `Soundpad keeps short audio clips in a local database and plays them from
the keyboard. The first nine sounds play with the digits 1-9; any sound can
get a letter or digit hotkey of its own.

Run without arguments to open the board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfigLoad(cmd) {
				return nil
			}
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configFlag, "config", "c", "", "config file (default ./.soundpad.yaml or ~/.config/soundpad/config.yaml)")
	flags.String("db", "", "database path (default ~/.local/share/soundpad/soundpad.db)")
	flags.Bool("debug", false, "write debug records to the log file")
	flags.Bool("mute", false, "do not play audio")

	root.AddCommand(
		newAddCommand(c),
		newListCommand(c),
		newRemoveCommand(c),
		newHotkeyCommand(c),
		newSwapCommand(c),
		newPlayCommand(c),
		newInitCommand(c),
		newConfigCommand(c),
	)
	return root
}

func skipConfigLoad(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if p.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
