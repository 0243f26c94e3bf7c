package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lourensdv/boekrak/internal/config"
	"github.com/lourensdv/boekrak/internal/database"
	"github.com/lourensdv/boekrak/internal/entrypoint"
	"github.com/lourensdv/boekrak/internal/exporters"
	"github.com/lourensdv/boekrak/internal/prefstore"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export":
		if err := runExport(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runExport writes a one-shot markdown listing of the shelf.
func runExport(args []string) error {
	cfg := config.NewConfig()

	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	dir := flags.String("dir", cfg.ExportSync.Dir, "directory to write markdown files to")
	dbPath := flags.String("db", cfg.Database.Path, "path to the database file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store := prefstore.New(db.DB)
	exporter := exporters.NewMarkdownExporter(*dir)
	result, err := exporter.Export(store.Books())
	if err != nil {
		return fmt.Errorf("exporting shelf: %w", err)
	}

	log.Printf("Exported %d books to %d files in %s", result.BooksProcessed, result.FilesWritten, *dir)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve   Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  export  Write a markdown listing of the shelf and exit\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s export -h' for export options.\n", os.Args[0])
}
