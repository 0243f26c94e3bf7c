// Package exporters writes the book collection out as markdown shelf
// listings, for backups or for dropping into a notes vault.
package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lourensdv/boekrak/internal/entities"
)

// ExportResult summarizes a completed export.
type ExportResult struct {
	BooksProcessed int `json:"books_processed"`
	FilesWritten   int `json:"files_written"`
}

// BookExporter writes a collection somewhere durable.
type BookExporter interface {
	Export(books []entities.Book) (ExportResult, error)
}

// MarkdownExporter writes one listing file per language plus an index file
// into the export directory.
type MarkdownExporter struct {
	ExportDir     string
	IndexFileName string
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{
		ExportDir:     exportDir,
		IndexFileName: "index.md",
	}
}

// Export writes the shelf listing. Books are grouped by language, each
// group sorted by the author key; read books are checked off and tag
// markers appended.
func (e *MarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	if err := os.MkdirAll(e.ExportDir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	groups := make(map[string][]entities.Book)
	for _, book := range books {
		lang := book.Language
		if lang == "" {
			lang = "Unknown"
		}
		groups[lang] = append(groups[lang], book)
	}

	languages := make([]string, 0, len(groups))
	for lang := range groups {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	result := ExportResult{}
	for _, lang := range languages {
		path := filepath.Join(e.ExportDir, SanitizeFilename(lang)+".md")
		if err := e.writeLanguageFile(path, lang, groups[lang]); err != nil {
			return result, err
		}
		result.FilesWritten++
		result.BooksProcessed += len(groups[lang])
	}

	if err := e.writeIndex(languages, groups); err != nil {
		return result, err
	}
	result.FilesWritten++

	return result, nil
}

func (e *MarkdownExporter) writeLanguageFile(path, language string, books []entities.Book) error {
	sorted := append([]entities.Book(nil), books...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Author) < strings.ToLower(sorted[j].Author)
	})

	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n\n", language)
	for _, book := range sorted {
		fmt.Fprintf(&builder, "- %s **%s** — %s%s\n",
			checkbox(book.Read), book.Title, book.DisplayAuthor(), tagMarkers(book))
	}
	return os.WriteFile(path, []byte(builder.String()), 0644)
}

func (e *MarkdownExporter) writeIndex(languages []string, groups map[string][]entities.Book) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "---\ncontent_type: book_shelf\ncreated_at: %s\n---\n\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&builder, "# Shelf\n\n")
	for _, lang := range languages {
		read := 0
		for _, book := range groups[lang] {
			if book.Read {
				read++
			}
		}
		fmt.Fprintf(&builder, "- [%s](%s.md): %d books, %d read\n",
			lang, SanitizeFilename(lang), len(groups[lang]), read)
	}
	return os.WriteFile(filepath.Join(e.ExportDir, e.IndexFileName), []byte(builder.String()), 0644)
}

func checkbox(read bool) string {
	if read {
		return "[x]"
	}
	return "[ ]"
}

func tagMarkers(book entities.Book) string {
	var tags []string
	if book.IsYouth {
		tags = append(tags, "youth")
	}
	if book.IsOnShelf {
		tags = append(tags, "owned")
	}
	if book.IsNonFiction {
		tags = append(tags, "non-fiction")
	}
	if len(tags) == 0 {
		return ""
	}
	return " _(" + strings.Join(tags, ", ") + ")_"
}

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a language name safe to use as a filename.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}
	if filename == "" {
		filename = "Untitled"
	}
	return filename
}
