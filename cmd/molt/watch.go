package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pfassina/molt/internal/config"
	"github.com/pfassina/molt/internal/migrate"
)

func runWatch(args []string) {
	cfg, _ := loadConfig()

	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	source := fs.String("source", cfg.SourcePath, "path to the Notion export directory")
	dest := fs.String("vault", cfg.VaultPath, "path to the Obsidian vault")
	tables := fs.Bool("tables", cfg.Tables, "render CSV databases as markdown tables")
	format := fs.Bool("format", cfg.Format, "normalize markdown after rewriting")
	verbose := fs.Bool("verbose", cfg.Verbose, "enable debug logging")
	fs.Parse(args)

	logger := newLogger(*verbose)

	srcPath := config.ExpandHome(*source)
	destPath := config.ExpandHome(*dest)
	if abs, err := filepath.Abs(destPath); err == nil {
		destPath = abs
	}
	if srcPath == "" {
		logger.Fatal("no export path given; pass -source or run molt setup")
	}

	m := migrate.New(migrate.Options{
		Source: srcPath,
		Dest:   destPath,
		Tables: *tables,
		Format: *format,
		Logger: logger,
	})

	// Initial run, then re-run as the export changes.
	stats, err := m.Run()
	if err != nil {
		logger.Fatal("migration failed", "error", err)
	}
	printSummary(stats)

	w, err := migrate.NewWatcher(m, func(stats migrate.Stats, err error) {
		if err != nil {
			logger.Error("migration failed", "error", err)
			return
		}
		logger.Info("re-migrated",
			"processed", stats.Processed(),
			"unresolved", stats.Unresolved,
			"failed", stats.Failed)
	})
	if err != nil {
		logger.Fatal("watch", "error", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		if err := w.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing watcher: %v\n", err)
		}
	}()

	logger.Info("watching for changes", "source", srcPath)
	w.Start()
}
