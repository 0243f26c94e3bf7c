package library

import (
	"sort"
	"strings"

	"github.com/lourensdv/boekrak/internal/entities"
)

// Query is the full filter/search/sort state a view is derived from.
type Query struct {
	Search string
	Prefs  entities.Preferences
}

// DeriveView computes the ordered list of books to display. It is pure:
// identical inputs always produce identical output, the input slice is not
// modified, and books with equal sort keys keep their relative input order.
//
// A book is included iff all four predicates hold: search (blank matches
// everything, otherwise case-insensitive substring on title or author),
// status (read/unread toggles; both off hides everything, which is
// intentional), tag (no active tag filter passes all books, otherwise
// inclusive OR over the active ones) and language (membership of the
// normalized language in the selected set; an empty set hides everything).
func DeriveView(books []entities.Book, q Query) []entities.Book {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	prefs := q.Prefs

	result := make([]entities.Book, 0, len(books))
	for _, book := range books {
		if !matchesSearch(book, search) {
			continue
		}
		if !matchesStatus(book, prefs) {
			continue
		}
		if !matchesTags(book, prefs) {
			continue
		}
		if !prefs.HasSelectedLanguage(book.Language) {
			continue
		}
		result = append(result, book)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return sortKey(result[i], prefs.SortOption) < sortKey(result[j], prefs.SortOption)
	})
	return result
}

func matchesSearch(book entities.Book, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(book.Title), search) ||
		strings.Contains(strings.ToLower(book.Author), search)
}

func matchesStatus(book entities.Book, prefs entities.Preferences) bool {
	return (book.Read && prefs.ShowRead) || (!book.Read && prefs.ShowUnread)
}

func matchesTags(book entities.Book, prefs entities.Preferences) bool {
	if !prefs.FilterYouth && !prefs.FilterOwned && !prefs.FilterNonFiction {
		return true
	}
	return (prefs.FilterYouth && book.IsYouth) ||
		(prefs.FilterOwned && book.IsOnShelf) ||
		(prefs.FilterNonFiction && book.IsNonFiction)
}

func sortKey(book entities.Book, option entities.SortOption) string {
	switch option {
	case entities.SortByTitle:
		return strings.ToLower(book.Title)
	case entities.SortByLanguage:
		return strings.ToLower(book.Language)
	default:
		return AuthorSortKey(book.Author)
	}
}

// AuthorSortKey derives the string books are ordered by when sorting by
// author. "Surname, GivenName" sorts by the surname before the comma;
// "GivenName Surname" by the last whitespace token; a single token sorts as
// itself. The key is lower-cased.
func AuthorSortKey(author string) string {
	if before, _, found := strings.Cut(author, ","); found {
		return strings.ToLower(strings.TrimSpace(before))
	}
	fields := strings.Fields(author)
	if len(fields) > 1 {
		return strings.ToLower(fields[len(fields)-1])
	}
	return strings.ToLower(strings.TrimSpace(author))
}
