// Package library implements the collection operations and the view
// derivation pipeline: everything between the persistence store and the
// presentation layer.
package library

import (
	"errors"
	"fmt"

	"github.com/lourensdv/boekrak/internal/config"
	"github.com/lourensdv/boekrak/internal/entities"
	"github.com/lourensdv/boekrak/internal/prefstore"
)

var (
	// ErrDuplicateBook is returned when a book's case-insensitive
	// (title, author) pair already exists in the collection. Retryable:
	// the collection is left unchanged.
	ErrDuplicateBook = errors.New("a book with this title and author already exists")

	// ErrBookNotFound is returned when an update or delete names a
	// (title, author) key not present in the collection.
	ErrBookNotFound = errors.New("book not found")

	// ErrMissingTitle is returned when a book is created without a title.
	ErrMissingTitle = errors.New("book title must not be empty")
)

// Service exposes the collection operations to the presentation layer.
// Search text is transient UI state and is passed per call rather than
// persisted; every mutation returns the recomputed ordered view so callers
// can render without a second read.
type Service struct {
	store             *prefstore.Store
	defaultLanguage   string
	standardLanguages []string
	isStandard        map[string]bool
}

func NewService(store *prefstore.Store, cfg config.Library) *Service {
	standard := make([]string, 0, len(cfg.StandardLanguages))
	isStandard := make(map[string]bool, len(cfg.StandardLanguages))
	for _, lang := range cfg.StandardLanguages {
		lang = entities.NormalizeLanguage(lang)
		if lang == "" || isStandard[lang] {
			continue
		}
		isStandard[lang] = true
		standard = append(standard, lang)
	}
	return &Service{
		store:             store,
		defaultLanguage:   entities.NormalizeLanguage(cfg.DefaultLanguage),
		standardLanguages: standard,
		isStandard:        isStandard,
	}
}

// ListBooks derives the current view for the given transient search text.
func (s *Service) ListBooks(search string) []entities.Book {
	snap := s.store.Snapshot()
	return DeriveView(snap.Books, Query{Search: search, Prefs: snap.Prefs})
}

// Preferences returns the persisted preferences, including the last-used
// creation values for form prefill.
func (s *Service) Preferences() entities.Preferences {
	return s.store.Preferences()
}

// StandardLanguages returns the configured fixed language set.
func (s *Service) StandardLanguages() []string {
	return append([]string(nil), s.standardLanguages...)
}

// AddBook appends a book to the collection. The language is normalized and
// defaulted, the duplicate invariant is enforced, the last-used creation
// values are recorded for the next form, and the language sets are
// reconciled, all within one atomic update.
func (s *Service) AddBook(book entities.Book, search string) ([]entities.Book, error) {
	if book.Title == "" {
		return nil, ErrMissingTitle
	}
	book.Language = s.normalizeOrDefault(book.Language)

	var opErr error
	snap, err := s.store.UpdateAtomic(func(snap prefstore.Snapshot) prefstore.Snapshot {
		for _, existing := range snap.Books {
			if book.Key().Matches(existing) {
				opErr = ErrDuplicateBook
				return snap
			}
		}
		snap.Books = append(snap.Books, book)
		snap.Prefs.LastSelectedLanguage = book.Language
		snap.Prefs.LastReadStatus = book.Read
		return s.reconcile(snap)
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}
	return s.derive(snap, search), nil
}

// UpdateBook replaces the book identified by oldKey with the given fields,
// preserving its position in the collection. The replacement must not
// collide with any other book's (title, author) pair.
func (s *Service) UpdateBook(oldKey entities.BookKey, updated entities.Book, search string) ([]entities.Book, error) {
	if updated.Title == "" {
		return nil, ErrMissingTitle
	}
	updated.Language = s.normalizeOrDefault(updated.Language)

	var opErr error
	snap, err := s.store.UpdateAtomic(func(snap prefstore.Snapshot) prefstore.Snapshot {
		index := -1
		for i, existing := range snap.Books {
			if oldKey.Matches(existing) {
				index = i
				break
			}
		}
		if index < 0 {
			opErr = ErrBookNotFound
			return snap
		}
		for i, existing := range snap.Books {
			if i != index && updated.Key().Matches(existing) {
				opErr = ErrDuplicateBook
				return snap
			}
		}
		snap.Books[index] = updated
		return s.reconcile(snap)
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}
	return s.derive(snap, search), nil
}

// DeleteBook removes the book identified by the key.
func (s *Service) DeleteBook(key entities.BookKey, search string) ([]entities.Book, error) {
	var opErr error
	snap, err := s.store.UpdateAtomic(func(snap prefstore.Snapshot) prefstore.Snapshot {
		index := -1
		for i, existing := range snap.Books {
			if key.Matches(existing) {
				index = i
				break
			}
		}
		if index < 0 {
			opErr = ErrBookNotFound
			return snap
		}
		snap.Books = append(snap.Books[:index], snap.Books[index+1:]...)
		return s.reconcile(snap)
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}
	return s.derive(snap, search), nil
}

// SetFilter toggles one of the status or tag filters.
func (s *Service) SetFilter(kind entities.FilterKind, value bool, search string) ([]entities.Book, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown filter kind %q", kind)
	}
	snap, err := s.store.UpdateAtomic(func(snap prefstore.Snapshot) prefstore.Snapshot {
		switch kind {
		case entities.FilterShowRead:
			snap.Prefs.ShowRead = value
		case entities.FilterShowUnread:
			snap.Prefs.ShowUnread = value
		case entities.FilterYouth:
			snap.Prefs.FilterYouth = value
		case entities.FilterOwned:
			snap.Prefs.FilterOwned = value
		case entities.FilterNonFiction:
			snap.Prefs.FilterNonFiction = value
		}
		return snap
	})
	if err != nil {
		return nil, err
	}
	return s.derive(snap, search), nil
}

// SetLanguageSelected adds or removes a language from the visible set.
func (s *Service) SetLanguageSelected(language string, selected bool, search string) ([]entities.Book, error) {
	lang := entities.NormalizeLanguage(language)
	if lang == "" {
		return nil, fmt.Errorf("language must not be empty")
	}
	snap, err := s.store.UpdateAtomic(func(snap prefstore.Snapshot) prefstore.Snapshot {
		has := snap.Prefs.HasSelectedLanguage(lang)
		switch {
		case selected && !has:
			snap.Prefs.SelectedLanguages = append(snap.Prefs.SelectedLanguages, lang)
		case !selected && has:
			kept := snap.Prefs.SelectedLanguages[:0]
			for _, l := range snap.Prefs.SelectedLanguages {
				if l != lang {
					kept = append(kept, l)
				}
			}
			snap.Prefs.SelectedLanguages = kept
		}
		return snap
	})
	if err != nil {
		return nil, err
	}
	return s.derive(snap, search), nil
}

// SetSort changes the ordering of the derived view.
func (s *Service) SetSort(option entities.SortOption, search string) ([]entities.Book, error) {
	if !option.Valid() {
		return nil, fmt.Errorf("unknown sort option %q", option)
	}
	snap, err := s.store.UpdateAtomic(func(snap prefstore.Snapshot) prefstore.Snapshot {
		snap.Prefs.SortOption = option
		return snap
	})
	if err != nil {
		return nil, err
	}
	return s.derive(snap, search), nil
}

// SetFontScale persists the display font multiplier. It does not affect the
// derived view.
func (s *Service) SetFontScale(scale float64) (entities.Preferences, error) {
	if scale <= 0 {
		return entities.Preferences{}, fmt.Errorf("font scale must be positive, got %g", scale)
	}
	snap, err := s.store.UpdateAtomic(func(snap prefstore.Snapshot) prefstore.Snapshot {
		snap.Prefs.FontScale = scale
		return snap
	})
	if err != nil {
		return entities.Preferences{}, err
	}
	return snap.Prefs, nil
}

// CustomLanguages returns the derived set of collection languages outside
// the standard set.
func (s *Service) CustomLanguages() []string {
	return s.store.Preferences().CustomLanguages
}

func (s *Service) derive(snap prefstore.Snapshot, search string) []entities.Book {
	return DeriveView(snap.Books, Query{Search: search, Prefs: snap.Prefs})
}

func (s *Service) normalizeOrDefault(language string) string {
	if lang := entities.NormalizeLanguage(language); lang != "" {
		return lang
	}
	return s.defaultLanguage
}

// reconcile keeps the language sets consistent with the collection. It runs
// inside every collection-changing atomic update.
//
// On the first transition from empty to non-empty, the filters are
// initialized exactly once: both status toggles on and every language
// currently present selected. Afterwards the custom-language cache is
// recomputed from scratch, so languages no longer used by any book drop out
// automatically.
func (s *Service) reconcile(snap prefstore.Snapshot) prefstore.Snapshot {
	if len(snap.Books) > 0 && !snap.Prefs.FiltersInitialized {
		snap.Prefs.ShowRead = true
		snap.Prefs.ShowUnread = true
		snap.Prefs.SelectedLanguages = entities.DistinctLanguages(snap.Books)
		snap.Prefs.FiltersInitialized = true
	}

	var custom []string
	for _, lang := range entities.DistinctLanguages(snap.Books) {
		if !s.isStandard[lang] {
			custom = append(custom, lang)
		}
	}
	snap.Prefs.CustomLanguages = custom
	return snap
}
