package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"charterbot/internal/domain"
	"charterbot/internal/knowledge"
)

func (a *app) kbCmd() *cobra.Command {
	kb := &cobra.Command{
		Use:   "kb",
		Short: "Inspect the FAQ knowledge base",
	}
	kb.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Print record counts, keywords and metadata",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, warnings := a.kb.Load()
				out := cmd.OutOrStdout()
				c := store.Counts()
				fmt.Fprintf(out, "Charter FAQs: %d\n", c.Charter)
				fmt.Fprintf(out, "Sales FAQs:   %d\n", c.Sales)
				fmt.Fprintf(out, "Total:        %d\n", c.Total())
				fmt.Fprintf(out, "Keywords:     %d\n", c.Keywords)
				meta := store.Metadata()
				keys := make([]string, 0, len(meta))
				for k := range meta {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "  %s: %v\n", k, meta[k])
				}
				printWarnings(cmd, warnings)
				return nil
			},
		},
		&cobra.Command{
			Use:   "lookup [keyword]",
			Short: "List FAQ records declaring a trigger keyword",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, warnings := a.kb.Load()
				printRecords(cmd.OutOrStdout(), store.Lookup(args[0]))
				printWarnings(cmd, warnings)
				return nil
			},
		},
		&cobra.Command{
			Use:   "match [text]",
			Short: "List FAQ records whose trigger keywords occur in text",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, warnings := a.kb.Load()
				printRecords(cmd.OutOrStdout(), store.Match(strings.Join(args, " ")))
				printWarnings(cmd, warnings)
				return nil
			},
		},
	)
	return kb
}

func printRecords(out io.Writer, records []domain.FAQRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No matching FAQ records.")
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "[%s] %s\n    %s\n", rec.Category, rec.Question, rec.Answer)
	}
}

func printWarnings(cmd *cobra.Command, warnings []knowledge.Warning) {
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w.Error())
	}
}
