package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pfassina/molt/internal/config"
	"github.com/pfassina/molt/internal/migrate"
	"github.com/pfassina/molt/internal/ui"
)

func runMigrate(args []string) {
	cfg, configExisted := loadConfig()

	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	source := fs.String("source", cfg.SourcePath, "path to the Notion export directory")
	dest := fs.String("vault", cfg.VaultPath, "path to the Obsidian vault")
	tables := fs.Bool("tables", cfg.Tables, "render CSV databases as markdown tables")
	format := fs.Bool("format", cfg.Format, "normalize markdown after rewriting")
	buildIndex := fs.Bool("index", cfg.BuildIndex, "index the vault after migrating")
	verbose := fs.Bool("verbose", cfg.Verbose, "enable debug logging")
	fs.Parse(args)

	// First run without a configured source: offer the setup wizard.
	if !configExisted && *source == "" {
		res, err := config.RunSetup()
		if err != nil {
			fmt.Fprintln(os.Stderr, "setup failed:", err)
			os.Exit(1)
		}
		if res.Cancelled {
			os.Exit(0)
		}
		*source = res.SourcePath
		*dest = res.VaultPath
	}

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
		Progress: func(action, target string) {
			fmt.Printf("%s %s\n", ui.DimText.Render(action), ui.PathStyle.Render(target))
		},
	})

	stats, err := m.Run()
	if err != nil {
		logger.Fatal("migration failed", "error", err)
	}
	printSummary(stats)

	if *buildIndex {
		buildVaultIndex(destPath, logger)
	}
}

func printSummary(stats migrate.Stats) {
	fmt.Println()
	fmt.Println(ui.TitleStyle.Render("Migration complete"))
	printStat(stats.Notes, "notes rewritten")
	printStat(stats.Tables, "tables rendered")
	printStat(stats.Copied, "files copied")
	if stats.Unresolved > 0 {
		fmt.Printf("  %s %s\n", ui.WarnStyle.Render(strconv.Itoa(stats.Unresolved)), ui.StatLabel.Render("unresolved links"))
	}
	if stats.Failed > 0 {
		fmt.Printf("  %s %s\n", ui.ErrorStyle.Render(strconv.Itoa(stats.Failed)), ui.StatLabel.Render("files failed"))
	}
}

func printStat(n int, label string) {
	fmt.Printf("  %s %s\n", ui.StatValue.Render(strconv.Itoa(n)), ui.StatLabel.Render(label))
}
