package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/lourensdv/boekrak/internal/entities"
	"github.com/lourensdv/boekrak/internal/exporters"
)

// CollectionReader provides the current book collection.
type CollectionReader interface {
	Books() []entities.Book
}

// ExportLibraryTask writes the markdown shelf listing for the whole
// collection.
type ExportLibraryTask struct {
	// ExportDir overrides the configured export directory when set.
	ExportDir string `json:"export_dir,omitempty"`
}

// Config returns the queue configuration for export tasks.
func (t ExportLibraryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "export_library",
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportLibraryProcessor creates a processor function for ExportLibraryTask.
func ExportLibraryProcessor(reader CollectionReader, defaultDir string) backlite.QueueProcessor[ExportLibraryTask] {
	return func(ctx context.Context, task ExportLibraryTask) error {
		if reader == nil {
			return fmt.Errorf("collection reader not configured")
		}

		dir := task.ExportDir
		if dir == "" {
			dir = defaultDir
		}

		exporter := exporters.NewMarkdownExporter(dir)
		result, err := exporter.Export(reader.Books())
		if err != nil {
			return fmt.Errorf("export library: %w", err)
		}

		log.Printf("[TASK] Exported %d books to %d files in %s", result.BooksProcessed, result.FilesWritten, dir)
		return nil
	}
}

// NewExportLibraryQueue creates a backlite queue for shelf export tasks.
func NewExportLibraryQueue(reader CollectionReader, defaultDir string) backlite.Queue {
	return backlite.NewQueue(ExportLibraryProcessor(reader, defaultDir))
}
