package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SetupResult is returned by RunSetup.
type SetupResult struct {
	SourcePath string
	VaultPath  string
	Cancelled  bool
}

const (
	stepSource = iota
	stepVault
	stepConfirm
)

type setupModel struct {
	source textinput.Model
	vault  textinput.Model
	step   int
	err    string
	done   bool
	quit   bool
}

func newSetupModel() setupModel {
	src := textinput.New()
	src.Placeholder = "~/Downloads/notion-export"
	src.CharLimit = 256
	src.Width = 50
	src.Focus()

	dst := textinput.New()
	dst.Placeholder = "~/vault"
	dst.CharLimit = 256
	dst.Width = 50

	return setupModel{source: src, vault: dst}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.advance()

		case "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}

		if m.step == stepConfirm {
			switch msg.String() {
			case "y", "Y":
				m.done = true
				return m, tea.Quit
			case "n", "N":
				m.quit = true
				return m, tea.Quit
			}
			return m, nil
		}

		// Typing clears a stale validation error; blink ticks must not.
		m.err = ""
	}

	var cmd tea.Cmd
	switch m.step {
	case stepSource:
		m.source, cmd = m.source.Update(msg)
	case stepVault:
		m.vault, cmd = m.vault.Update(msg)
	}
	return m, cmd
}

func (m setupModel) advance() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepSource:
		if err := validateSourcePath(ExpandHome(m.source.Value())); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.source.Blur()
		m.vault.Focus()
		m.step = stepVault
		return m, textinput.Blink

	case stepVault:
		path := m.vault.Value()
		if path == "" {
			path = "~/vault"
			m.vault.SetValue(path)
		}
		expanded := ExpandHome(path)
		if err := validateVaultPath(expanded); err != nil {
			m.err = err.Error()
			return m, nil
		}
		if dirNotEmpty(expanded) {
			m.step = stepConfirm
			return m, nil
		}
		m.done = true
		return m, tea.Quit

	case stepConfirm:
		// Enter defaults to no.
		m.quit = true
		return m, tea.Quit
	}
	return m, nil
}

func (m setupModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")).
		Render("Welcome to Molt")

	var s string
	s += "\n " + title + "\n\n"

	switch m.step {
	case stepSource:
		s += " Enter your Notion export path:\n\n"
		s += "   " + m.source.View() + "\n\n"
	case stepVault:
		s += " Enter your Obsidian vault path:\n\n"
		s += "   " + m.vault.View() + "\n\n"
	case stepConfirm:
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		s += " " + warn.Render(fmt.Sprintf("%s is not empty.", ExpandHome(m.vault.Value()))) + "\n\n"
		s += " Migrate into it anyway? [y/N]\n\n"
	}

	if m.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		s += " " + errStyle.Render(m.err) + "\n\n"
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	s += " " + dim.Render("Press Enter to confirm, Esc to cancel") + "\n"

	return s
}

// validateSourcePath checks that an export directory exists.
func validateSourcePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s does not exist", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// validateVaultPath checks that a path is usable as a vault directory.
func validateVaultPath(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	// Check that the parent directory exists or can be created.
	parent := filepath.Dir(path)
	pinfo, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("parent directory %s does not exist", parent)
	}
	if !pinfo.IsDir() {
		return fmt.Errorf("%s is not a directory", parent)
	}
	return nil
}

func dirNotEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}

// RunSetup runs the first-run TUI prompt and returns the chosen paths.
func RunSetup() (SetupResult, error) {
	m := newSetupModel()
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return SetupResult{}, err
	}

	fm, ok := final.(setupModel)
	if !ok {
		return SetupResult{}, fmt.Errorf("unexpected model type from setup wizard")
	}
	if fm.quit || !fm.done {
		return SetupResult{Cancelled: true}, nil
	}

	source := ExpandHome(fm.source.Value())
	vault := fm.vault.Value()
	if vault == "" {
		vault = "~/vault"
	}
	vault = ExpandHome(vault)

	if err := SaveFile(source, vault); err != nil {
		return SetupResult{}, fmt.Errorf("saving config: %w", err)
	}

	return SetupResult{SourcePath: source, VaultPath: vault}, nil
}
