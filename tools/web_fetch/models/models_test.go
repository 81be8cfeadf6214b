package models

import "testing"

func TestResultContentTypes(t *testing.T) {
	cases := []struct {
		res     Result
		html    bool
		listing bool
	}{
		{Result{ContentType: "text/html; charset=utf-8"}, true, true},
		{Result{ContentType: "application/xhtml+xml"}, true, true},
		{Result{ContentType: "application/xml"}, false, true},
		{Result{ContentType: "application/rss+xml; charset=UTF-8"}, false, true},
		{Result{ContentType: "application/json"}, false, false},
		{Result{ContentType: "image/png"}, false, false},
		{Result{HTML: "<!DOCTYPE html><html></html>"}, true, true},
		{Result{HTML: `<?xml version="1.0"?><urlset/>`}, false, true},
	}
	for i, tc := range cases {
		if got := tc.res.IsHTML(); got != tc.html {
			t.Fatalf("case %d: IsHTML = %v, want %v", i, got, tc.html)
		}
		if got := tc.res.IsListing(); got != tc.listing {
			t.Fatalf("case %d: IsListing = %v, want %v", i, got, tc.listing)
		}
	}
}
