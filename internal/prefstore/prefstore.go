// Package prefstore is the durable key/value store for the book collection
// and user preferences.
//
// Values are JSON documents in the settings table, one row per logical key.
// The collection is serialized as a whole under the "books" key, so every
// collection write rewrites the full list. Reads never fail: an absent or
// undecodable value yields the documented default for its key, and
// corruption is logged rather than surfaced.
//
// # Usage
//
//	store := prefstore.New(db.DB)
//	snap, err := store.UpdateAtomic(func(s prefstore.Snapshot) prefstore.Snapshot {
//		s.Books = append(s.Books, book)
//		return s
//	})
package prefstore

import (
	"encoding/json"
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/lourensdv/boekrak/internal/entities"
)

// Snapshot is the full persisted state: the collection plus the single
// Preferences instance. Mutators passed to UpdateAtomic receive a snapshot
// and return a complete replacement.
type Snapshot struct {
	Books []entities.Book
	Prefs entities.Preferences
}

type subscriber struct {
	key string
	ch  chan Snapshot
}

// deliver hands the subscriber a snapshot, replacing a pending undelivered
// one instead of blocking. Snapshots arrive in commit order, so the pending
// value is never newer than the one replacing it.
func (sub *subscriber) deliver(snap Snapshot) {
	select {
	case sub.ch <- snap:
	default:
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snap:
		default:
		}
	}
}

// Store reads and writes the settings table. Concurrent UpdateAtomic calls
// are applied as serialized transactions; the last applied write wins.
type Store struct {
	db *gorm.DB

	// writeMu serializes snapshot writers so two in-flight mutators cannot
	// interleave their read-modify-write cycles.
	writeMu sync.Mutex

	obsMu sync.Mutex
	subs  []*subscriber
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Snapshot returns the current persisted state, substituting defaults for
// anything absent or corrupt.
func (s *Store) Snapshot() Snapshot {
	return s.loadSnapshot(s.db)
}

// Books returns the current collection. A missing or corrupt serialized
// collection yields an empty one.
func (s *Store) Books() []entities.Book {
	return s.loadBooks(s.db)
}

// Preferences returns the current preferences with defaults filled in.
func (s *Store) Preferences() entities.Preferences {
	return s.loadPreferences(s.db)
}

// UpdateAtomic applies the mutator to the current snapshot inside a single
// transaction and persists the replacement. Only keys whose serialized
// value actually changed are rewritten, and observers of those keys are
// notified after the transaction commits.
func (s *Store) UpdateAtomic(mutate func(Snapshot) Snapshot) (Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var result Snapshot
	var changed []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		current := s.loadSnapshot(tx)
		result = normalizeSnapshot(mutate(current))

		oldValues := encodeSnapshot(current)
		newValues := encodeSnapshot(result)

		for _, key := range snapshotKeys {
			if oldValues[key] == newValues[key] {
				continue
			}
			if err := setValue(tx, key, newValues[key]); err != nil {
				return err
			}
			changed = append(changed, key)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	for _, key := range changed {
		s.publish(key, result)
	}
	return result, nil
}

// Observe returns a channel delivering snapshots whenever the given key is
// written, seeded with the current snapshot. Delivery coalesces: a slow
// consumer may skip intermediate values but always receives the newest.
// The returned cancel function releases the subscription.
func (s *Store) Observe(key string) (<-chan Snapshot, func()) {
	sub := &subscriber{key: key, ch: make(chan Snapshot, 1)}

	// Register before reading the seed: a write committing in between is
	// then either visible in the seed or published to the channel, never
	// lost. The coalescing send keeps whichever snapshot is newest.
	s.obsMu.Lock()
	s.subs = append(s.subs, sub)
	s.obsMu.Unlock()

	sub.deliver(s.Snapshot())

	cancel := func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, candidate := range s.subs {
			if candidate == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
	return sub.ch, cancel
}

func (s *Store) publish(key string, snap Snapshot) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for _, sub := range s.subs {
		if sub.key == key {
			sub.deliver(snap)
		}
	}
}

// snapshotKeys is every key a snapshot write may touch, in write order.
var snapshotKeys = []string{
	entities.KeyBooks,
	entities.KeySortOption,
	entities.KeyFontScale,
	entities.KeyShowRead,
	entities.KeyShowUnread,
	entities.KeyFilterYouth,
	entities.KeyFilterOwned,
	entities.KeyFilterNonFiction,
	entities.KeySelectedLanguages,
	entities.KeyFiltersInitialized,
	entities.KeyCustomLanguages,
	entities.KeyLastSelectedLanguage,
	entities.KeyLastReadStatus,
}

func (s *Store) loadSnapshot(tx *gorm.DB) Snapshot {
	return Snapshot{
		Books: s.loadBooks(tx),
		Prefs: s.loadPreferences(tx),
	}
}

func (s *Store) loadBooks(tx *gorm.DB) []entities.Book {
	raw, ok := getValue(tx, entities.KeyBooks)
	if !ok {
		return nil
	}
	var books []entities.Book
	if err := json.Unmarshal([]byte(raw), &books); err != nil {
		log.Printf("prefstore: corrupt collection under %q, falling back to empty: %v", entities.KeyBooks, err)
		return nil
	}
	return books
}

func (s *Store) loadPreferences(tx *gorm.DB) entities.Preferences {
	prefs := entities.DefaultPreferences()

	if raw, ok := getValue(tx, entities.KeySortOption); ok {
		var opt entities.SortOption
		if decode(entities.KeySortOption, raw, &opt) && opt.Valid() {
			prefs.SortOption = opt
		}
	}
	if raw, ok := getValue(tx, entities.KeyFontScale); ok {
		var scale float64
		if decode(entities.KeyFontScale, raw, &scale) && scale > 0 {
			prefs.FontScale = scale
		}
	}
	loadBool(tx, entities.KeyShowRead, &prefs.ShowRead)
	loadBool(tx, entities.KeyShowUnread, &prefs.ShowUnread)
	loadBool(tx, entities.KeyFilterYouth, &prefs.FilterYouth)
	loadBool(tx, entities.KeyFilterOwned, &prefs.FilterOwned)
	loadBool(tx, entities.KeyFilterNonFiction, &prefs.FilterNonFiction)
	loadBool(tx, entities.KeyFiltersInitialized, &prefs.FiltersInitialized)
	loadBool(tx, entities.KeyLastReadStatus, &prefs.LastReadStatus)
	loadStrings(tx, entities.KeySelectedLanguages, &prefs.SelectedLanguages)
	loadStrings(tx, entities.KeyCustomLanguages, &prefs.CustomLanguages)

	if raw, ok := getValue(tx, entities.KeyLastSelectedLanguage); ok {
		var lang string
		if decode(entities.KeyLastSelectedLanguage, raw, &lang) && lang != "" {
			prefs.LastSelectedLanguage = lang
		}
	}

	return prefs
}

func loadBool(tx *gorm.DB, key string, dst *bool) {
	if raw, ok := getValue(tx, key); ok {
		var value bool
		if decode(key, raw, &value) {
			*dst = value
		}
	}
}

func loadStrings(tx *gorm.DB, key string, dst *[]string) {
	if raw, ok := getValue(tx, key); ok {
		var values []string
		if decode(key, raw, &values) {
			*dst = values
		}
	}
}

// decode unmarshals a stored value, logging and reporting failure so the
// caller keeps the default.
func decode(key, raw string, dst any) bool {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("prefstore: corrupt value under %q, falling back to default: %v", key, err)
		return false
	}
	return true
}

func getValue(tx *gorm.DB, key string) (string, bool) {
	var setting entities.Setting
	err := tx.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return "", false
	}
	return setting.Value, true
}

func setValue(tx *gorm.DB, key, value string) error {
	var setting entities.Setting
	result := tx.Where("key = ?", key).First(&setting)

	if result.Error == gorm.ErrRecordNotFound {
		setting = entities.Setting{Key: key, Value: value}
		return tx.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return tx.Save(&setting).Error
}

func encodeSnapshot(snap Snapshot) map[string]string {
	values := map[string]string{
		entities.KeyBooks:                mustEncode(booksOrEmpty(snap.Books)),
		entities.KeySortOption:           mustEncode(snap.Prefs.SortOption),
		entities.KeyFontScale:            mustEncode(snap.Prefs.FontScale),
		entities.KeyShowRead:             mustEncode(snap.Prefs.ShowRead),
		entities.KeyShowUnread:           mustEncode(snap.Prefs.ShowUnread),
		entities.KeyFilterYouth:          mustEncode(snap.Prefs.FilterYouth),
		entities.KeyFilterOwned:          mustEncode(snap.Prefs.FilterOwned),
		entities.KeyFilterNonFiction:     mustEncode(snap.Prefs.FilterNonFiction),
		entities.KeySelectedLanguages:    mustEncode(stringsOrEmpty(snap.Prefs.SelectedLanguages)),
		entities.KeyFiltersInitialized:   mustEncode(snap.Prefs.FiltersInitialized),
		entities.KeyCustomLanguages:      mustEncode(stringsOrEmpty(snap.Prefs.CustomLanguages)),
		entities.KeyLastSelectedLanguage: mustEncode(snap.Prefs.LastSelectedLanguage),
		entities.KeyLastReadStatus:       mustEncode(snap.Prefs.LastReadStatus),
	}
	return values
}

func booksOrEmpty(books []entities.Book) []entities.Book {
	if books == nil {
		return []entities.Book{}
	}
	return books
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func mustEncode(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		// Only reachable with unmarshalable types, which none of the
		// snapshot fields are.
		panic(err)
	}
	return string(data)
}

// normalizeSnapshot enforces the storage normalization rule: every language
// string entering the store is trimmed with its first rune upper-cased.
func normalizeSnapshot(snap Snapshot) Snapshot {
	for i := range snap.Books {
		snap.Books[i].Language = entities.NormalizeLanguage(snap.Books[i].Language)
	}
	snap.Prefs.SelectedLanguages = normalizeLanguages(snap.Prefs.SelectedLanguages)
	snap.Prefs.CustomLanguages = normalizeLanguages(snap.Prefs.CustomLanguages)
	if snap.Prefs.LastSelectedLanguage != "" {
		snap.Prefs.LastSelectedLanguage = entities.NormalizeLanguage(snap.Prefs.LastSelectedLanguage)
	}
	return snap
}

func normalizeLanguages(languages []string) []string {
	if languages == nil {
		return nil
	}
	seen := make(map[string]bool, len(languages))
	normalized := make([]string, 0, len(languages))
	for _, lang := range languages {
		lang = entities.NormalizeLanguage(lang)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		normalized = append(normalized, lang)
	}
	return normalized
}
