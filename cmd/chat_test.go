package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/khobor/config"
	"github.com/mohammad-safakhou/khobor/models"
)

func TestConverse(t *testing.T) {
	in := strings.NewReader("top 3\n\n  the first one \nquit\nnever read\n")
	var out strings.Builder
	var seen []string
	err := converse(in, &out, func(line string) string {
		seen = append(seen, line)
		return "reply:" + line
	})
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if len(seen) != 2 || seen[0] != "top 3" || seen[1] != "the first one" {
		t.Fatalf("unexpected lines: %q", seen)
	}
	if !strings.Contains(out.String(), "reply:the first one") {
		t.Fatalf("reply missing from output: %q", out.String())
	}
}

func TestListCommand(t *testing.T) {
	cases := map[string][]string{
		"top 10 dailystar":     {"10", "dailystar"},
		"list 3 from jugantor": {"3", "jugantor"},
		"top 5":                {"5", ""},
	}
	for line, want := range cases {
		m := listCommand.FindStringSubmatch(line)
		if m == nil || m[1] != want[0] || m[2] != want[1] {
			t.Fatalf("%q: got %q", line, m)
		}
	}
	if listCommand.MatchString("the top one") {
		t.Fatalf("reference should not parse as a list command")
	}
}

func TestDescribe(t *testing.T) {
	if got := describe(&models.RangeError{Index: 9, Size: 4}); got != "There are only 4 headlines." {
		t.Fatalf("out of range: %q", got)
	}
	if got := describe(&models.RangeError{Index: 1, Size: 0}); !strings.Contains(got, "no headlines yet") {
		t.Fatalf("empty cache: %q", got)
	}
	if got := describe(fmt.Errorf("%w: banana", models.ErrUnresolvable)); !strings.Contains(got, "which headline") {
		t.Fatalf("unresolvable: %q", got)
	}
	if got := describe(errors.New("boom")); got != "boom" {
		t.Fatalf("internal: %q", got)
	}
}

func TestLogsWanted(t *testing.T) {
	cfg := &config.Config{}
	if logsWanted(cfg, false) {
		t.Fatalf("logs should be off by default for one-shot commands")
	}
	if !logsWanted(cfg, true) {
		t.Fatalf("--debug should turn logs on")
	}
	cfg.General.Debug = true
	if !logsWanted(cfg, false) {
		t.Fatalf("general.debug should turn logs on")
	}
}
