package directory

import (
	"os"
	"path/filepath"
	"testing"
)

func testDirectory() *Directory {
	d := New()
	d.Update(Config{
		{Trigger: "g", Name: "Google", Domain: "https://www.google.com", URL: "https://www.google.com/search?q={query}"},
		{Trigger: "w", Name: "Wikipedia", Domain: "https://en.wikipedia.org", URL: "/wiki/Special:Search?search={query}"},
		{Trigger: "ddg", Name: "DuckDuckGo", Domain: "https://duckduckgo.com/", URL: "/?q={{{s}}}"},
	})
	return d
}

func TestDirectoryLookup(t *testing.T) {
	d := testDirectory()

	if _, ok := d.Lookup("nope"); ok {
		t.Error("Lookup(nope) matched, want miss")
	}

	entry, ok := d.Lookup("G")
	if !ok {
		t.Fatal("Lookup(G) missed, want case-insensitive match")
	}
	if entry.Name != "Google" {
		t.Errorf("Name = %q, want Google", entry.Name)
	}
	if d.Count() != 3 {
		t.Errorf("Count = %d, want 3", d.Count())
	}
}

func TestEntrySearchURL(t *testing.T) {
	d := testDirectory()

	tests := []struct {
		name    string
		trigger string
		term    string
		want    string
	}{
		{
			name:    "absolute template",
			trigger: "g",
			term:    "hello world",
			want:    "https://www.google.com/search?q=hello+world",
		},
		{
			name:    "domain-relative template joins onto domain",
			trigger: "w",
			term:    "go",
			want:    "https://en.wikipedia.org/wiki/Special:Search?search=go",
		},
		{
			name:    "trailing slash domain with triple brace placeholder",
			trigger: "ddg",
			term:    "go",
			want:    "https://duckduckgo.com/?q=go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := d.Lookup(tt.trigger)
			if !ok {
				t.Fatalf("Lookup(%s) missed", tt.trigger)
			}
			if got := entry.SearchURL(tt.term); got != tt.want {
				t.Errorf("SearchURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoaderLoad(t *testing.T) {
	content := `
- trigger: g
  name: Google
  domain: https://www.google.com
  url: https://www.google.com/search?q={query}
  category: search
  rank: 1
- trigger: gh
  name: GitHub
  domain: https://github.com
  url: /search?q={query}
`
	path := filepath.Join(t.TempDir(), "bangs.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(config) != 2 {
		t.Fatalf("len(config) = %d, want 2", len(config))
	}
	if config[0].Trigger != "g" || config[0].Rank != 1 {
		t.Errorf("unexpected first entry: %+v", config[0])
	}

	d := New()
	d.Update(config)
	entry, ok := d.Lookup("gh")
	if !ok {
		t.Fatal("Lookup(gh) missed after load")
	}
	if got := entry.SearchURL("chi"); got != "https://github.com/search?q=chi" {
		t.Errorf("SearchURL = %q", got)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	if _, err := NewLoader("/does/not/exist.yaml").Load(); err == nil {
		t.Error("Load succeeded on missing file, want error")
	}
}
