package entities

// SortOption selects the ordering of the derived book list.
type SortOption string

const (
	SortByAuthor   SortOption = "author"
	SortByTitle    SortOption = "title"
	SortByLanguage SortOption = "language"
)

// Valid reports whether the option is one of the known sort orders.
func (o SortOption) Valid() bool {
	switch o {
	case SortByAuthor, SortByTitle, SortByLanguage:
		return true
	}
	return false
}

// FilterKind names a toggleable boolean filter.
type FilterKind string

const (
	FilterShowRead   FilterKind = "show_read"
	FilterShowUnread FilterKind = "show_unread"
	FilterYouth      FilterKind = "youth"
	FilterOwned      FilterKind = "owned"
	FilterNonFiction FilterKind = "non_fiction"
)

// Valid reports whether the kind is a known filter toggle.
func (k FilterKind) Valid() bool {
	switch k {
	case FilterShowRead, FilterShowUnread, FilterYouth, FilterOwned, FilterNonFiction:
		return true
	}
	return false
}

// Preferences is the persisted, process-wide user state. A single instance
// exists per installation; the store hands out copies and applies whole
// replacements.
type Preferences struct {
	SortOption SortOption `json:"sort_option"`
	FontScale  float64    `json:"font_scale"`

	ShowRead   bool `json:"show_read"`
	ShowUnread bool `json:"show_unread"`

	FilterYouth      bool `json:"filter_youth"`
	FilterOwned      bool `json:"filter_owned"`
	FilterNonFiction bool `json:"filter_non_fiction"`

	// SelectedLanguages is the set of normalized languages the user wants
	// visible. Initialized once to "all languages in the collection" the
	// first time the collection becomes non-empty; an empty set afterwards
	// means the user deselected everything and hides all books.
	SelectedLanguages []string `json:"selected_languages"`

	// CustomLanguages is a derived cache: languages present in the
	// collection that are outside the configured standard set. Recomputed
	// on every collection change.
	CustomLanguages []string `json:"custom_languages"`

	// Last values used when creating a book, for prefilling the next form.
	LastSelectedLanguage string `json:"last_selected_language"`
	LastReadStatus       bool   `json:"last_read_status"`

	// FiltersInitialized guards the one-shot filter initialization.
	FiltersInitialized bool `json:"filters_initialized"`
}

const (
	DefaultFontScale            = 1.3
	DefaultLastSelectedLanguage = "English"
)

// DefaultPreferences returns the documented defaults used when nothing has
// been persisted yet, or when a persisted value cannot be decoded.
func DefaultPreferences() Preferences {
	return Preferences{
		SortOption:           SortByAuthor,
		FontScale:            DefaultFontScale,
		ShowRead:             true,
		ShowUnread:           true,
		LastSelectedLanguage: DefaultLastSelectedLanguage,
	}
}

// HasSelectedLanguage reports membership in the selected-language set. The
// candidate is normalized before comparison.
func (p Preferences) HasSelectedLanguage(language string) bool {
	lang := NormalizeLanguage(language)
	for _, l := range p.SelectedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
