package entities

import (
	"strings"
	"unicode"
)

// Book is a single entry in the personal collection. Books have no surrogate
// key: the case-insensitive (title, author) pair identifies a book, and
// uniqueness of that pair is enforced at creation time by the library
// service, not by the storage layer.
type Book struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Language     string `json:"language"`
	Read         bool   `json:"read"`
	IsYouth      bool   `json:"is_youth"`
	IsOnShelf    bool   `json:"is_on_shelf"`
	IsNonFiction bool   `json:"is_non_fiction"`
}

// BookKey identifies a book structurally for update and delete operations.
type BookKey struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Key returns the book's structural identity.
func (b Book) Key() BookKey {
	return BookKey{Title: b.Title, Author: b.Author}
}

// Matches reports whether the key refers to the given book, comparing title
// and author case-insensitively. Whitespace and punctuation are deliberately
// not normalized here: "Dune " and "Dune" are distinct titles.
func (k BookKey) Matches(b Book) bool {
	return strings.EqualFold(k.Title, b.Title) && strings.EqualFold(k.Author, b.Author)
}

// DisplayAuthor renders a "Surname, GivenName" author as "GivenName Surname"
// for list rows. Authors stored without a comma are returned unchanged.
func (b Book) DisplayAuthor() string {
	before, after, found := strings.Cut(b.Author, ",")
	if !found {
		return b.Author
	}
	given := strings.TrimSpace(after)
	surname := strings.TrimSpace(before)
	if given == "" {
		return surname
	}
	return given + " " + surname
}

// NormalizeLanguage trims a language string and upper-cases its first rune.
// "english", "English" and " English " all normalize to "English". The rest
// of the string is left untouched so values like "isiXhosa" keep their
// casing.
func NormalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return ""
	}
	runes := []rune(language)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// DistinctLanguages returns the normalized languages present in the
// collection, each once, in first-seen order.
func DistinctLanguages(books []Book) []string {
	seen := make(map[string]bool, len(books))
	var languages []string
	for _, b := range books {
		lang := NormalizeLanguage(b.Language)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		languages = append(languages, lang)
	}
	return languages
}
