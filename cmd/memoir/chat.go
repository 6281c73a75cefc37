package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ent0n29/memoir/internal/chat"
	"github.com/ent0n29/memoir/internal/memory"
)

type chatOptions struct {
	sessionID string
	personID  string
	language  string
}

func newChatCmd(root *rootOptions) *cobra.Command {
	opts := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the interviewer from the terminal",
		Long: `Send one message, or with no argument read one message per line from stdin
until EOF. Replies are printed one per line and every turn is stored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := root.buildOneShot(cmd)
			if err != nil {
				return err
			}
			defer res.Cleanup()

			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()
			session := opts.sessionID
			var history []memory.HistoryEntry

			say := func(message string) error {
				resp, err := res.Orchestrator.Respond(ctx, chat.Request{
					Message:   message,
					Language:  opts.language,
					SessionID: session,
					PersonID:  opts.personID,
					History:   history,
				})
				if err != nil {
					return err
				}
				session = resp.SessionID
				history = append(history, memory.HistoryEntry{UserText: message, AIText: resp.Reply})
				_, err = fmt.Fprintln(out, resp.Reply)
				return err
			}

			if len(args) == 1 {
				return say(args[0])
			}
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if err := say(line); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "session id to continue")
	cmd.Flags().StringVar(&opts.personID, "person", "", "person the turns belong to")
	cmd.Flags().StringVar(&opts.language, "language", "", "language tag or name (en, ur, ...)")
	return cmd
}
