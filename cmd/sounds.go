package cmd

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/zjrosen/soundpad/internal/soundboard/domain"
	"github.com/zjrosen/soundpad/internal/ui/styles"
)

func newAddCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Add audio files as sounds",
		Long: `Add one or more audio files. Each file becomes a sound named after the
part of the file name before the first dot. The batch is saved together: if
any file cannot be read nothing is added.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				names, err := s.board.Upload(cmd.Context(), args)
				if err != nil {
					return err
				}
				snap := s.board.Snapshot()
				for _, name := range names {
					e, _ := snap.Find(name)
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s (slot %d, %s)\n", name, e.Slot+1, e.Label)
				}
				return nil
			})
		},
	}
}

func newListCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List sounds in slot order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				snap := s.board.Snapshot()
				if snap.Len() == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sounds yet. Add some with: soundpad add <file>...")
					return nil
				}
				rows := make([][]string, 0, snap.Len())
				for _, e := range snap.Entries {
					rows = append(rows, []string{
						strconv.Itoa(e.Slot + 1),
						e.Name,
						string(e.Partition),
						e.Label,
						styles.FormatBytes(e.Size),
						e.MIME,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Slot", "Name", "Partition", "Label", "Size", "Type"}, rows, 1, 5))
				return nil
			})
		},
	}
}

func newRemoveCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a sound and its hotkey",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				if err := s.board.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newHotkeyCommand(c *commandContext) *cobra.Command {
	hotkey := &cobra.Command{
		Use:   "hotkey",
		Short: "Set or clear sound hotkeys",
	}
	hotkey.AddCommand(
		&cobra.Command{
			Use:   "set <name> <key>",
			Short: "Give a sound a single letter or digit hotkey",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withServices(cmd.Context(), func(s *services) error {
					if err := s.board.Assign(cmd.Context(), args[0], args[1]); err != nil {
						return err
					}
					k := s.board.Hotkeys()[args[0]]
					fmt.Fprintf(cmd.OutOrStdout(), "Hotkey of %s set to %s\n", args[0], k)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear <name>",
			Short: "Remove the hotkey of a sound",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withServices(cmd.Context(), func(s *services) error {
					if err := s.board.ClearHotkey(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Hotkey of %s removed\n", args[0])
					return nil
				})
			},
		},
	)
	return hotkey
}

func newSwapCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "swap <source> <target>",
		Short: "Swap the positions of two sounds",
		Long: `Swap two sounds. Hotkeys follow the slots: two sounds in the same
partition trade hotkeys, and across the base/custom boundary the sound moving
into base takes the hotkey of the one it displaced while the sound moving into
custom loses its own. Base sounds without a hotkey show their new slot digit.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				snap := s.board.Snapshot()
				for _, name := range args {
					if _, ok := snap.Find(name); !ok {
						return &domain.SoundNotFoundError{Name: name}
					}
				}
				changed, err := s.board.Reorder(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to swap")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Swapped %s and %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newPlayCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "play <name>",
		Short: "Play a sound once and wait for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), func(s *services) error {
				ended := make(chan struct{})
				var once sync.Once
				s.player.OnEnded(func(string) { once.Do(func() { close(ended) }) })

				if _, err := s.board.Toggle(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Playing %s\n", args[0])
				select {
				case <-ended:
					return nil
				case <-cmd.Context().Done():
					s.board.Stop()
					return nil
				}
			})
		},
	}
}
