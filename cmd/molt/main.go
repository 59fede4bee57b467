package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/pfassina/molt/internal/config"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "migrate":
		runMigrate(args)
	case "watch":
		runWatch(args)
	case "index":
		runIndex(args)
	case "search":
		runSearch(args)
	case "backlinks":
		runBacklinks(args)
	case "doctor":
		runDoctor(args)
	case "setup":
		runSetup()
	case "version", "-v", "--version":
		fmt.Println("molt " + version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "molt: unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`molt migrates a Notion export into an Obsidian vault.

Usage:

  molt <command> [flags]

Commands:

  migrate     migrate a Notion export into a vault
  watch       re-run the migration when the export changes
  index       build the vault search index
  search      full-text search across indexed notes
  backlinks   list notes linking to a note
  doctor      report broken links, missing sections, and orphans
  setup       interactive configuration
  version     print the molt version
  help        show this help

Run "molt <command> -h" for command flags.
`)
}

func runSetup() {
	res, err := config.RunSetup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "setup failed:", err)
		os.Exit(1)
	}
	if res.Cancelled {
		fmt.Println("setup cancelled")
		return
	}
	fmt.Println("saved", config.ConfigPath())
}

func loadConfig() (config.Config, bool) {
	cfg := config.Default()
	existed, err := config.LoadFile(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}
	return cfg, existed
}

func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
