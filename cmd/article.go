package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mohammad-safakhou/khobor/models"
	"github.com/spf13/cobra"
)

func articleCMD(cfgPath *string) *cobra.Command {
	var (
		url       string
		sessionID string
		ref       string
		category  string
		debug     bool
	)
	var article = &cobra.Command{
		Use:   "article",
		Short: "Print a cleaned article, by URL or by reference into a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (url == "") == (ref == "") {
				return errors.New("exactly one of --url or --ref is required")
			}
			if ref != "" && sessionID == "" {
				return errors.New("--ref needs --session")
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, *cfgPath, !debug)
			if err != nil {
				return err
			}

			var content models.ArticleContent
			if url != "" {
				content, err = a.crawler.FetchArticle(ctx, url)
			} else {
				content, err = a.desk.GetArticle(ctx, sessionID, ref, category)
			}
			if err != nil {
				return err
			}
			printArticle(cmd.OutOrStdout(), content)
			return nil
		},
	}
	article.Flags().StringVar(&url, "url", "", "article URL")
	article.Flags().StringVar(&sessionID, "session", "", "session holding the headline listing")
	article.Flags().StringVar(&ref, "ref", "", `reference such as "2nd", "the last one" or "তৃতীয়"`)
	article.Flags().StringVar(&category, "category", "", "resolve the reference within one topic")
	article.Flags().BoolVar(&debug, "debug", false, "log crawler activity to stderr")

	return article
}

func printArticle(w io.Writer, a models.ArticleContent) {
	fmt.Fprintln(w, a.Title)
	fmt.Fprintln(w, strings.Repeat("=", min(len([]rune(a.Title)), 72)))
	if a.Byline != "" {
		fmt.Fprintln(w, a.Byline)
	}
	fmt.Fprintln(w, a.URL)
	fmt.Fprintln(w)
	for _, p := range a.Paragraphs() {
		fmt.Fprintln(w, p)
		fmt.Fprintln(w)
	}
}
