package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/khobor/engine"
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/spf13/cobra"
)

var listCommand = regexp.MustCompile(`^(?:top|list|headlines)\s+(\d+)(?:\s+(?:from\s+)?(\S+))?$`)

func chatCMD(cfgPath *string) *cobra.Command {
	var debug bool
	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Interactive session: list headlines, then ask for one by reference",
		Long: `Interactive session over stdin.

  top 10 dailystar     list and cache the top 10 Daily Star headlines
  top 5                list from every source
  the second one       print the article a reference points to
  sports: the last one resolve the reference within one topic
  quit                 end the session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *cfgPath, !debug)
			if err != nil {
				return err
			}
			id, err := a.desk.CreateSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.desk.CloseSession(ctx, id) }()

			return converse(cmd.InOrStdin(), cmd.OutOrStdout(), func(line string) string {
				return respond(cmd, a.desk, id, line)
			})
		},
	}
	chat.Flags().BoolVar(&debug, "debug", false, "log crawler activity to stderr")

	return chat
}

func converse(in io.Reader, out io.Writer, reply func(string) string) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
		case "quit", "exit", "bye":
			return nil
		default:
			fmt.Fprintln(out, reply(line))
		}
		fmt.Fprint(out, "> ")
	}
	return sc.Err()
}

func respond(cmd *cobra.Command, desk *engine.Desk, sessionID, line string) string {
	ctx := cmd.Context()
	if m := listCommand.FindStringSubmatch(strings.ToLower(line)); m != nil {
		n, _ := strconv.Atoi(m[1])
		list, err := desk.ListTopN(ctx, sessionID, models.ParseSource(m[2]), n)
		if err != nil {
			return describe(err)
		}
		if len(list) == 0 {
			return "no recent headlines"
		}
		var b strings.Builder
		for _, h := range list {
			fmt.Fprintf(&b, "%2d. [%s] %s\n", h.Position, h.Source, h.Title)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	var category string
	if topic, ref, ok := strings.Cut(line, ":"); ok && !strings.Contains(topic, "//") {
		category, line = strings.TrimSpace(topic), strings.TrimSpace(ref)
	}
	article, err := desk.GetArticle(ctx, sessionID, line, category)
	if err != nil {
		return describe(err)
	}
	var b strings.Builder
	printArticle(&b, article)
	return strings.TrimRight(b.String(), "\n")
}

// describe turns a failure into a line a reader can act on.
func describe(err error) string {
	f := models.FailureFrom(err)
	switch f.Kind {
	case models.KindUnresolvable:
		return "I couldn't tell which headline you meant. Try \"the 2nd one\" or \"the last one\"."
	case models.KindOutOfRange:
		if f.Available == 0 {
			return "There are no headlines yet. Try \"top 5\"."
		}
		return fmt.Sprintf("There are only %d headlines.", f.Available)
	case models.KindSourceUnavailable:
		return "That source could not be reached right now."
	case models.KindFetchFailed, models.KindExtractionFailed:
		return "I couldn't read that article: " + f.Message
	}
	return f.Message
}
