package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ent0n29/memoir/internal/memory"
)

func newNotesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage written notes",
	}
	cmd.AddCommand(newNotesAddCmd(root))
	return cmd
}

func newNotesAddCmd(root *rootOptions) *cobra.Command {
	var personID, language string
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Record a note for a person",
		Long: `Record a free-text memory outside a conversation. The text is taken from
the argument, or from stdin when no argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(raw)
			}
			note, err := memory.NewNote(personID, text, language, time.Now())
			if err != nil {
				return err
			}

			res, err := root.buildOneShot(cmd)
			if err != nil {
				return err
			}
			defer res.Cleanup()

			stored, err := res.Store.AppendNote(commandContext(cmd), note)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "note %s saved for %s\n", stored.ID, stored.PersonID)
			return err
		},
	}
	cmd.Flags().StringVar(&personID, "person", "", "person the note belongs to")
	cmd.Flags().StringVar(&language, "language", "", "language of the note")
	return cmd
}
