package directory

// Config represents the top-level structure of bangs.yaml:
// a flat list of curated entries.
type Config []EntrySpec

// EntrySpec contains one curated bang definition as written in yaml.
type EntrySpec struct {
	Trigger     string `yaml:"trigger"`
	Name        string `yaml:"name"`
	Domain      string `yaml:"domain"`
	URL         string `yaml:"url"`
	Category    string `yaml:"category,omitempty"`
	Subcategory string `yaml:"subcategory,omitempty"`
	Rank        int    `yaml:"rank,omitempty"`
}
