package helpers

import "testing"

func TestCanonicalURL(t *testing.T) {
	cases := map[string]string{
		"http://WWW.TheDailyStar.net/news/bangladesh/abc-123?utm_source=fb#top": "https://thedailystar.net/news/bangladesh/abc-123",
		"https://www.jugantor.com/sports/12345/":                                "https://jugantor.com/sports/12345",
		"https://www.prothomalo.com:443/bangladesh/x?b=2&a=1":                   "https://prothomalo.com/bangladesh/x?a=1&b=2",
	}
	for in, want := range cases {
		got, err := CanonicalURL(in)
		if err != nil {
			t.Fatalf("CanonicalURL(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("CanonicalURL(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := CanonicalURL("/relative/path"); err == nil {
		t.Fatalf("expected error for relative url")
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://WWW.DhakaTribune.com:8443/x"); got != "dhakatribune.com" {
		t.Fatalf("unexpected host %q", got)
	}
	if got := Host("no host"); got != "" {
		t.Fatalf("expected empty host, got %q", got)
	}
}

func TestCategoryFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.thedailystar.net/news/bangladesh/politics/some-story-3912345": "bangladesh",
		"https://www.thedailystar.net/sports/cricket/news/some-story-3912345":      "sports",
		"https://www.jugantor.com/sports/912345":                                   "sports",
		"https://www.dhakatribune.com/837412/story":                                "",
		"https://www.prothomalo.com/story":                                         "",
	}
	for in, want := range cases {
		if got := CategoryFromURL(in); got != want {
			t.Fatalf("CategoryFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}
