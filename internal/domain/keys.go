package domain

// KeyPrefix is the default prefix for all keys written to the preference store.
const KeyPrefix = "albumdex:"

// Preference keys, relative to the configured prefix.
const (
	QueryKey = "query"
	OrderKey = "order"
)

// SectionAlbumsKey returns the collection snapshot key for a library section.
// Returns "" when no section is selected.
func SectionAlbumsKey(section string) string {
	if section == "" {
		return ""
	}
	return section + ":albums"
}
