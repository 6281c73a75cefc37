package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ent0n29/memoir/internal/biography"
)

func newBiographyCmd(root *rootOptions) *cobra.Command {
	var (
		personID string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "biography",
		Short: "Write the biography of a person from stored turns and notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(personID) == "" {
				return errors.New("--person is required")
			}
			res, err := root.buildOneShot(cmd)
			if err != nil {
				return err
			}
			defer res.Cleanup()

			report, err := res.Biographies.Report(commandContext(cmd), personID)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return renderReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&personID, "person", "", "person to write about (required; \"unassigned\" for anonymous turns)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func renderReport(w io.Writer, r biography.Report) error {
	doc := r.Biography
	s := doc.Sections
	sections := []struct{ heading, body string }{
		{"Introduction", s.Introduction},
		{"Early Life", s.EarlyLife},
		{"Personality", s.Personality},
		{"Life Journey", s.LifeJourney},
		{"Relationships", s.Relationships},
		{"Values", s.Values},
		{"Stories", s.Stories},
		{"Themes", s.Themes},
		{"Conclusion", s.Conclusion},
	}
	if _, err := fmt.Fprintf(w, "# %s\n\n", doc.Title); err != nil {
		return err
	}
	for _, sec := range sections {
		if _, err := fmt.Fprintf(w, "## %s\n\n%s\n\n", sec.heading, sec.body); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s\n(%d turns, %d notes; %s)\n", s.Summary, r.Stats.TurnCount, r.Stats.NoteCount, doc.Source)
	return err
}
