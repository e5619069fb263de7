package model

// Preference is a single application setting, keyed by item. Preferences
// have no soft-delete and no timestamps; writes replace the row for a key.
type Preference struct {
	Item string
	Data string
}

// PrefTheme is the preference key for the UI theme choice.
const PrefTheme = "app_theme"
