package domain

import "strings"

// Slugify derives a stable link identifier from a title.
// The title is lowercased, every run of non-alphanumeric characters is
// collapsed to a single hyphen, and leading/trailing hyphens are dropped.
// Example: "NASA POWER Dataset!!" -> "nasa-power-dataset"
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}
