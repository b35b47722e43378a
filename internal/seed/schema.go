package seed

// File is the top-level structure of the seed catalog YAML
type File struct {
	Categories []CategoryEntry `yaml:"categories"`
}

// CategoryEntry is one category with its nested links
type CategoryEntry struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Icon        string      `yaml:"icon"`
	Description string      `yaml:"description"`
	Links       []LinkEntry `yaml:"links,omitempty"`
}

// LinkEntry is one link inside a category. ID is optional; when absent
// it is derived from the title.
type LinkEntry struct {
	ID    string `yaml:"id,omitempty"`
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
	Type  string `yaml:"type"`
	Notes string `yaml:"notes,omitempty"`
}
