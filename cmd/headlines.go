package main

import (
	"fmt"

	"github.com/mohammad-safakhou/khobor/models"
	"github.com/spf13/cobra"
)

func headlinesCMD(cfgPath *string) *cobra.Command {
	var (
		source    string
		n         int
		sessionID string
		debug     bool
	)
	var headlines = &cobra.Command{
		Use:   "headlines",
		Short: "Print the top N headlines from a source",
		Long: "Print the top N headlines from a source. With --session the listing " +
			"also becomes that session's cache (redis backend only outlives the process).",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *cfgPath, !debug)
			if err != nil {
				return err
			}

			src := models.ParseSource(source)
			var list []models.Headline
			if sessionID != "" {
				list, err = a.desk.ListTopN(ctx, sessionID, src, n)
			} else if src == models.SourceAll {
				id, cerr := a.desk.CreateSession(ctx)
				if cerr != nil {
					return cerr
				}
				list, err = a.desk.ListTopN(ctx, id, src, n)
				_ = a.desk.CloseSession(ctx, id)
			} else {
				list, err = a.crawler.FetchHeadlines(ctx, src, n)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, h := range list {
				fmt.Fprintf(out, "%2d. %s\n    %s\n", h.Position, h.Title, h.URL)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "no recent headlines")
			}
			return nil
		},
	}
	headlines.Flags().StringVarP(&source, "source", "s", "all", "dailystar, dhakatribune, prothomalo, jugantor or all")
	headlines.Flags().IntVar(&n, "n", 10, "number of headlines")
	headlines.Flags().StringVar(&sessionID, "session", "", "cache the listing in this session")
	headlines.Flags().BoolVar(&debug, "debug", false, "log crawler activity to stderr")

	return headlines
}
