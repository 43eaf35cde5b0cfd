package directory

import (
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

// Entry is one curated shortcut in the system bang directory.
type Entry struct {
	Trigger     string // without the "!" prefix
	Name        string
	Domain      string // absolute base URL, e.g. "https://www.google.com"
	URLTemplate string // search template with {query} or {{{s}}} placeholder
	Category    string
	Subcategory string
	Rank        int
}

// SearchURL substitutes a search term into the entry's template.
// Domain-relative templates ("/search?q={query}") are joined onto the
// entry's domain rather than treated as absolute.
func (e *Entry) SearchURL(term string) string {
	target := domain.ExpandTemplate(e.URLTemplate, term)
	if strings.HasPrefix(target, "/") {
		return strings.TrimSuffix(e.Domain, "/") + target
	}
	return target
}

// HomeURL is the bang-only redirect target: the entry's own domain.
func (e *Entry) HomeURL() string {
	return e.Domain
}

// Directory is the read-only in-memory index of curated system bangs,
// keyed by trigger. It is loaded once at startup and safe for unlimited
// concurrent reads; Update only runs on (re)load.
type Directory struct {
	mu         sync.RWMutex
	byTrigger  map[string]*Entry
	lastReload time.Time
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{
		byTrigger: make(map[string]*Entry),
	}
}

// Update replaces all entries in the directory.
func (d *Directory) Update(config Config) {
	entries := make(map[string]*Entry, len(config))
	for _, spec := range config {
		trigger := strings.ToLower(strings.TrimPrefix(spec.Trigger, "!"))
		if trigger == "" {
			continue
		}
		entries[trigger] = &Entry{
			Trigger:     trigger,
			Name:        spec.Name,
			Domain:      spec.Domain,
			URLTemplate: spec.URL,
			Category:    spec.Category,
			Subcategory: spec.Subcategory,
			Rank:        spec.Rank,
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.byTrigger = entries
	d.lastReload = time.Now()
}

// Lookup retrieves an entry by trigger (without the "!" prefix).
func (d *Directory) Lookup(trigger string) (*Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entry, ok := d.byTrigger[strings.ToLower(trigger)]
	return entry, ok
}

// Count returns the number of entries in the directory.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.byTrigger)
}

// LastReload returns the timestamp of the last directory load.
func (d *Directory) LastReload() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.lastReload
}
