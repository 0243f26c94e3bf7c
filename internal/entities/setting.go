package entities

import (
	"time"
)

// Setting is one row of the key/value preferences table. Values are JSON so
// the same table carries booleans, string sets and the serialized book
// collection.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Persisted state keys. This is the durable contract that survives
// restarts; defaults live in DefaultPreferences and the prefstore readers.
const (
	KeyBooks                = "books"
	KeySortOption           = "sort_option"
	KeyFontScale            = "font_scale"
	KeyShowRead             = "show_read"
	KeyShowUnread           = "show_unread"
	KeyFilterYouth          = "filter_youth"
	KeyFilterOwned          = "filter_owned"
	KeyFilterNonFiction     = "filter_non_fiction"
	KeySelectedLanguages    = "selected_languages"
	KeyFiltersInitialized   = "filters_initialized"
	KeyCustomLanguages      = "custom_languages"
	KeyLastSelectedLanguage = "last_selected_language"
	KeyLastReadStatus       = "last_read_status"
)
