package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/refdeck/refdeck/internal/domain"
)

// Loader handles loading and parsing of the seed catalog file
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads, parses and validates the seed catalog file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	if err := Validate(file); err != nil {
		return File{}, err
	}

	return file, nil
}

// Validate checks structural shape before anything is written: every
// category needs id/title/icon/description, every link needs a title,
// a url and a known type.
func Validate(file File) error {
	for _, category := range file.Categories {
		if category.ID == "" || category.Title == "" || category.Icon == "" || category.Description == "" {
			return fmt.Errorf("invalid category entry: %q", category.Title)
		}
		for _, link := range category.Links {
			if link.Title == "" || link.URL == "" {
				return fmt.Errorf("invalid link entry %q in category %q", link.Title, category.Title)
			}
			if !domain.LinkType(link.Type).Valid() {
				return fmt.Errorf("unknown link type %q for %q in category %q", link.Type, link.Title, category.Title)
			}
		}
	}
	return nil
}
