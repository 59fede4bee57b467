package migrate

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pfassina/molt/internal/markdown"
	"github.com/pfassina/molt/internal/notion"
	"github.com/pfassina/molt/internal/vault"
)

// Options configures one migration run.
type Options struct {
	Source string // export root
	Dest   string // vault root
	Tables bool   // render tabular files as markdown tables
	Format bool   // normalize rewritten markdown
	Logger *log.Logger

	// Progress, when set, is called after each file lands in the vault.
	Progress func(action, target string)
}

// Stats summarizes one migration run.
type Stats struct {
	Notes      int // markdown files rewritten
	Tables     int // tabular files rendered as tables
	Copied     int // other files copied
	Failed     int // files that errored
	Unresolved int // link targets that did not resolve
}

// Processed returns the number of files that made it into the vault.
func (s Stats) Processed() int {
	return s.Notes + s.Tables + s.Copied
}

// Migrator runs the export-to-vault migration pipeline.
type Migrator struct {
	opts   Options
	vault  *vault.Vault
	logger *log.Logger
}

func New(opts Options) *Migrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Migrator{
		opts:   opts,
		vault:  vault.New(opts.Dest),
		logger: logger,
	}
}

// Run migrates the export tree into the vault. The registry is populated
// over the full tree before any file is rewritten, so a link to a
// later-visited page still resolves. One file failing is recorded and
// skipped; only a failed scan aborts the run.
func (m *Migrator) Run() (Stats, error) {
	var stats Stats

	items, err := notion.ScanExport(m.opts.Source)
	if err != nil {
		return stats, fmt.Errorf("scan export: %w", err)
	}

	reg := vault.NewRegistry()
	for _, it := range items {
		reg.Register(it.SourceRel)
	}
	m.logger.Debug("registered export files", "count", reg.Len())

	targets := make(map[string]string, len(items))
	for _, it := range items {
		target := vault.TargetPath(it.SourceRel)
		if prev, ok := targets[target]; ok {
			m.logger.Warn("target collision, later file wins",
				"target", target, "first", prev, "second", it.SourceRel)
		}
		targets[target] = it.SourceRel

		var err error
		switch it.Kind {
		case notion.KindText:
			err = m.processNote(it, target, reg, &stats)
		case notion.KindTabular:
			err = m.processTable(it, target, reg, &stats)
		default:
			err = m.processBinary(it, target, &stats)
		}
		if err != nil {
			m.logger.Error("processing failed", "source", it.SourceRel, "error", err)
			stats.Failed++
		}
	}

	return stats, nil
}

func (m *Migrator) processNote(it notion.Item, target string, reg *vault.Registry, stats *Stats) error {
	content, err := os.ReadFile(m.sourceAbs(it))
	if err != nil {
		return fmt.Errorf("read %s: %w", it.SourceRel, err)
	}

	out, unresolved := markdown.Rewrite(string(content), reg)
	for _, miss := range unresolved {
		m.logger.Warn("unresolved link", "source", it.SourceRel, "target", miss)
	}
	stats.Unresolved += len(unresolved)

	data := []byte(out)
	if m.opts.Format {
		data = markdown.Format(data)
	}
	if err := m.vault.WriteFile(target, data); err != nil {
		return err
	}

	m.logger.Debug("rewrote note", "source", it.SourceRel, "target", target)
	m.progress("rewrote", target)
	stats.Notes++
	return nil
}

// processTable copies the tabular file verbatim and, when enabled, renders
// it as a markdown table next to the copy, titled by the clean stem.
func (m *Migrator) processTable(it notion.Item, target string, reg *vault.Registry, stats *Stats) error {
	src := m.sourceAbs(it)
	if err := m.vault.CopyFrom(src, target); err != nil {
		return fmt.Errorf("copy %s: %w", it.SourceRel, err)
	}
	if !m.opts.Tables {
		m.progress("copied", target)
		stats.Copied++
		return nil
	}

	rows, err := readTable(src)
	if err != nil {
		return fmt.Errorf("parse table %s: %w", it.SourceRel, err)
	}

	table, unresolved := markdown.RenderTable(rows, reg)
	for _, miss := range unresolved {
		m.logger.Warn("unresolved link", "source", it.SourceRel, "target", miss)
	}
	stats.Unresolved += len(unresolved)

	mdTarget := strings.TrimSuffix(target, path.Ext(target)) + ".md"
	content := "# " + vault.Stem(target) + "\n\n" + table + "\n"
	if err := m.vault.WriteFile(mdTarget, []byte(content)); err != nil {
		return err
	}

	m.logger.Debug("rendered table", "source", it.SourceRel, "target", mdTarget)
	m.progress("rendered", mdTarget)
	stats.Tables++
	return nil
}

func (m *Migrator) processBinary(it notion.Item, target string, stats *Stats) error {
	if err := m.vault.CopyFrom(m.sourceAbs(it), target); err != nil {
		return fmt.Errorf("copy %s: %w", it.SourceRel, err)
	}
	m.logger.Debug("copied file", "source", it.SourceRel, "target", target)
	m.progress("copied", target)
	stats.Copied++
	return nil
}

func (m *Migrator) progress(action, target string) {
	if m.opts.Progress != nil {
		m.opts.Progress(action, target)
	}
}

func (m *Migrator) sourceAbs(it notion.Item) string {
	return filepath.Join(m.opts.Source, filepath.FromSlash(it.SourceRel))
}
