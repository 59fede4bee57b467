package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/pfassina/molt/internal/config"
	"github.com/pfassina/molt/internal/index"
	"github.com/pfassina/molt/internal/ui"
	"github.com/pfassina/molt/internal/vault"
)

// indexPath returns the index database path inside the vault.
func indexPath(vaultPath string) string {
	return filepath.Join(vaultPath, ".molt", "index.db")
}

func openIndex(vaultPath string, create bool) (*index.DB, error) {
	path := indexPath(vaultPath)
	if create {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no index at %s; run molt index first", path)
	}
	return index.Open(path)
}

func buildVaultIndex(vaultPath string, logger *log.Logger) {
	db, err := openIndex(vaultPath, true)
	if err != nil {
		logger.Fatal("open index", "error", err)
	}
	defer db.Close()

	idx := index.NewIndexer(db, vaultPath)
	if err := idx.IndexAll(); err != nil {
		logger.Fatal("index vault", "error", err)
	}

	notes, files, links, err := db.Counts()
	if err != nil {
		logger.Fatal("index counts", "error", err)
	}
	fmt.Printf("indexed %d notes, %d files, %d links\n", notes, files, links)
}

func runIndex(args []string) {
	cfg, _ := loadConfig()

	fs := flag.NewFlagSet("index", flag.ExitOnError)
	vaultFlag := fs.String("vault", cfg.VaultPath, "path to the Obsidian vault")
	watch := fs.Bool("watch", false, "keep the index current as the vault changes")
	verbose := fs.Bool("verbose", cfg.Verbose, "enable debug logging")
	fs.Parse(args)

	logger := newLogger(*verbose)
	vaultPath := config.ExpandHome(*vaultFlag)

	buildVaultIndex(vaultPath, logger)
	if *watch {
		watchVaultIndex(vaultPath, logger)
	}
}

// watchVaultIndex keeps the index in sync until interrupted.
func watchVaultIndex(vaultPath string, logger *log.Logger) {
	db, err := openIndex(vaultPath, true)
	if err != nil {
		logger.Fatal("open index", "error", err)
	}
	defer db.Close()

	idx := index.NewIndexer(db, vaultPath)
	w, err := index.NewWatcher(idx, func(action, path string, err error) {
		switch {
		case err != nil && path == "":
			logger.Error("watch error", "error", err)
		case err != nil:
			logger.Error("index update failed", "path", path, "error", err)
		default:
			fmt.Printf("%s %s\n", ui.DimText.Render(action), ui.PathStyle.Render(path))
		}
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

	logger.Info("watching for changes", "vault", vaultPath)
	w.Start()
}

func runSearch(args []string) {
	cfg, _ := loadConfig()

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	vaultFlag := fs.String("vault", cfg.VaultPath, "path to the Obsidian vault")
	limit := fs.Int("limit", 20, "maximum results")
	files := fs.Bool("files", false, "match file paths and titles instead of content")
	headings := fs.Bool("headings", false, "match headings instead of content")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: molt search [flags] QUERY")
		os.Exit(1)
	}
	query := strings.Join(fs.Args(), " ")

	db, err := openIndex(config.ExpandHome(*vaultFlag), false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer db.Close()

	if *headings {
		results, err := db.SearchHeadings(query, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "search:", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			fmt.Println(ui.DimText.Render("no matches"))
			return
		}
		for _, r := range results {
			fmt.Printf("%s  %s %s\n",
				ui.PathStyle.Render(r.NotePath),
				ui.DimText.Render(strings.Repeat("#", r.Level)),
				r.Text)
		}
		return
	}

	var results []index.SearchResult
	if *files {
		results, err = db.SearchFiles(query, *limit)
	} else {
		results, err = db.Search(query, *limit)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "search:", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println(ui.DimText.Render("no matches"))
		return
	}
	for _, r := range results {
		fmt.Printf("%s  %s\n", ui.PathStyle.Render(r.Path), ui.DimText.Render(r.Title))
	}
}

func runBacklinks(args []string) {
	cfg, _ := loadConfig()

	fs := flag.NewFlagSet("backlinks", flag.ExitOnError)
	vaultFlag := fs.String("vault", cfg.VaultPath, "path to the Obsidian vault")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: molt backlinks [flags] NOTE")
		os.Exit(1)
	}
	name := strings.Join(fs.Args(), " ")

	db, err := openIndex(config.ExpandHome(*vaultFlag), false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer db.Close()

	target, err := db.FindNote(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, "backlinks:", err)
		os.Exit(1)
	}
	if target == "" {
		fmt.Fprintf(os.Stderr, "no indexed note matches %q\n", name)
		os.Exit(1)
	}

	backlinks, err := db.GetBacklinks(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, "backlinks:", err)
		os.Exit(1)
	}
	if len(backlinks) == 0 {
		fmt.Println(ui.DimText.Render("no backlinks"))
		return
	}

	fmt.Println(ui.TitleStyle.Render(target))
	for _, bl := range backlinks {
		marker := ""
		if bl.Embed {
			marker = "  " + ui.DimText.Render("embed")
		}
		fmt.Printf("  %s%s%s\n",
			ui.PathStyle.Render(bl.SourcePath),
			ui.DimText.Render(fmt.Sprintf(":%d", bl.Line)),
			marker)
	}
}

func runDoctor(args []string) {
	cfg, _ := loadConfig()

	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	vaultFlag := fs.String("vault", cfg.VaultPath, "path to the Obsidian vault")
	reindex := fs.Bool("reindex", true, "refresh the index before checking")
	verbose := fs.Bool("verbose", cfg.Verbose, "enable debug logging")
	fs.Parse(args)

	logger := newLogger(*verbose)
	vaultPath := config.ExpandHome(*vaultFlag)

	db, err := openIndex(vaultPath, true)
	if err != nil {
		logger.Fatal("open index", "error", err)
	}
	defer db.Close()

	if *reindex {
		idx := index.NewIndexer(db, vaultPath)
		if err := idx.IndexAll(); err != nil {
			logger.Fatal("index vault", "error", err)
		}
	}

	report, err := db.Doctor()
	if err != nil {
		logger.Fatal("doctor", "error", err)
	}

	if report.Healthy() {
		fmt.Println(ui.OKStyle.Render("vault healthy: no broken links, missing sections, or orphans"))
		return
	}

	if len(report.Unresolved) > 0 {
		fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("Unresolved links (%d)", len(report.Unresolved))))
		for _, u := range report.Unresolved {
			fmt.Printf("  %s:%d  [[%s]]\n", ui.PathStyle.Render(u.SourcePath), u.Line, u.Target)
		}
	}
	if len(report.MissingSections) > 0 {
		fmt.Println(ui.WarnStyle.Render(fmt.Sprintf("Missing sections (%d)", len(report.MissingSections))))
		for _, m := range report.MissingSections {
			fmt.Printf("  %s:%d  [[%s#%s]]\n", ui.PathStyle.Render(m.SourcePath), m.Line, vault.Stem(m.TargetPath), m.Section)
		}
	}
	if len(report.Orphans) > 0 {
		fmt.Println(ui.DimText.Render(fmt.Sprintf("Orphaned notes (%d)", len(report.Orphans))))
		for _, p := range report.Orphans {
			fmt.Printf("  %s\n", ui.PathStyle.Render(p))
		}
	}

	// Orphans alone are informational; broken references fail the run.
	if len(report.Unresolved) > 0 || len(report.MissingSections) > 0 {
		os.Exit(1)
	}
}
