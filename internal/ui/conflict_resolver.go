package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cmerge/internal/buffer"
	"cmerge/internal/conflict"
	"cmerge/internal/git"
	"cmerge/internal/resolver"
)

type ConflictResolverModel struct {
	repo      *git.Repo
	service   *resolver.Service
	files     []string
	fileIndex int

	content  string
	regions  []conflict.Region
	viewport viewport.Model
	ready    bool

	width  int
	height int

	message  string
	err      error
	quitting bool

	// Styles
	titleStyle    lipgloss.Style
	currentStyle  lipgloss.Style
	incomingStyle lipgloss.Style
	markerStyle   lipgloss.Style
	contextStyle  lipgloss.Style
	messageStyle  lipgloss.Style
	errorStyle    lipgloss.Style
	helpStyle     lipgloss.Style
}

func NewConflictResolverModel(repo *git.Repo, service *resolver.Service, files []string) ConflictResolverModel {
	vp := viewport.New(0, 0)
	palette := catppuccin.Mocha

	return ConflictResolverModel{
		repo:     repo,
		service:  service,
		files:    files,
		viewport: vp,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Mauve().Hex)).
			Bold(true),

		currentStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Green().Hex)),

		incomingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Blue().Hex)),

		markerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Peach().Hex)).
			Bold(true),

		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Subtext0().Hex)),

		messageStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Green().Hex)).
			Bold(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Red().Hex)).
			Bold(true),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Overlay1().Hex)),
	}
}

func (m ConflictResolverModel) Init() tea.Cmd {
	return m.loadCurrentFile
}

func (m ConflictResolverModel) loadCurrentFile() tea.Msg {
	if len(m.files) == 0 {
		return fileLoadedMsg{}
	}

	path := filepath.Join(m.repo.WorkDir, m.files[m.fileIndex])
	content, err := buffer.NewFile(path).Read()
	return fileLoadedMsg{content: content, err: err}
}

func (m ConflictResolverModel) resolveCurrentFile(policy conflict.Policy) tea.Cmd {
	path := m.files[m.fileIndex]
	return func() tea.Msg {
		outcome := m.service.ResolveFile(path, policy)
		if outcome.Err == nil && outcome.Changed && outcome.Result.Clean() {
			outcome.Err = m.repo.MarkResolved([]string{path})
		}
		return resolveDoneMsg{outcome: outcome}
	}
}

func (m ConflictResolverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 4 // Title + message + help + padding
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight)
			m.ready = true
			m.viewport.SetContent(m.highlighted())
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight
		}

	case fileLoadedMsg:
		m.err = msg.err
		m.content = msg.content
		m.regions = conflict.Scan(msg.content)
		m.viewport.SetContent(m.highlighted())
		m.viewport.GotoTop()

	case resolveDoneMsg:
		out := msg.outcome
		if out.Err != nil {
			m.err = out.Err
			return m, m.loadCurrentFile
		}

		m.err = nil
		if out.Result.Clean() {
			m.message = fmt.Sprintf("Resolved %d conflicts in %s", out.Result.Resolved, out.Path)
			m.files = append(m.files[:m.fileIndex], m.files[m.fileIndex+1:]...)
			if len(m.files) == 0 {
				m.quitting = true
				return m, tea.Quit
			}
			if m.fileIndex >= len(m.files) {
				m.fileIndex = 0
			}
		} else {
			m.message = fmt.Sprintf("%d conflicts remain in %s", out.Result.Unresolved, out.Path)
		}
		return m, m.loadCurrentFile

	case tea.KeyMsg:
		if m.quitting {
			return m, tea.Quit
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "n", "tab":
			if len(m.files) > 1 {
				m.fileIndex = (m.fileIndex + 1) % len(m.files)
				return m, m.loadCurrentFile
			}

		case "p", "shift+tab":
			if len(m.files) > 1 {
				m.fileIndex = (m.fileIndex - 1 + len(m.files)) % len(m.files)
				return m, m.loadCurrentFile
			}

		case "r":
			return m, m.loadCurrentFile

		case "c":
			if len(m.files) > 0 {
				return m, m.resolveCurrentFile(conflict.Current)
			}

		case "i":
			if len(m.files) > 0 {
				return m, m.resolveCurrentFile(conflict.Incoming)
			}

		case "b":
			if len(m.files) > 0 {
				return m, m.resolveCurrentFile(conflict.Both)
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// highlighted renders the loaded content with each conflict side colored:
// current side green, incoming side blue, marker lines peach.
func (m ConflictResolverModel) highlighted() string {
	lines := strings.Split(m.content, "\n")
	styled := make([]string, len(lines))

	styles := make(map[int]lipgloss.Style, len(lines))
	for _, r := range m.regions {
		styles[r.StartLine] = m.markerStyle
		styles[r.SeparatorLine] = m.markerStyle
		styles[r.EndLine] = m.markerStyle
		for i := r.StartLine + 1; i < r.SeparatorLine; i++ {
			styles[i] = m.currentStyle
		}
		for i := r.SeparatorLine + 1; i < r.EndLine; i++ {
			styles[i] = m.incomingStyle
		}
	}

	for i, line := range lines {
		if style, ok := styles[i]; ok {
			styled[i] = style.Render(line)
		} else {
			styled[i] = m.contextStyle.Render(line)
		}
	}

	return strings.Join(styled, "\n")
}

func (m ConflictResolverModel) View() string {
	if m.quitting {
		return "All conflicts resolved.\n"
	}

	var sections []string

	if len(m.files) == 0 {
		sections = append(sections, m.titleStyle.Render("No conflicted files"))
	} else {
		title := fmt.Sprintf("%s (%d/%d) - %d conflicts",
			m.files[m.fileIndex], m.fileIndex+1, len(m.files), len(m.regions))
		sections = append(sections, m.titleStyle.Render(title))
		sections = append(sections, m.viewport.View())
	}

	if m.err != nil {
		sections = append(sections, m.errorStyle.Render(m.err.Error()))
	} else if m.message != "" {
		sections = append(sections, m.messageStyle.Render(m.message))
	}

	sections = append(sections, m.helpStyle.Render("c: keep current • i: keep incoming • b: keep both • n/p: file • j/k: scroll • q: quit"))

	return strings.Join(sections, "\n")
}

// RunConflictResolver drives the interactive resolver over the given
// conflicted files.
func RunConflictResolver(repo *git.Repo, service *resolver.Service, files []string) error {
	m := NewConflictResolverModel(repo, service, files)

	program := tea.NewProgram(m, tea.WithAltScreen())

	_, err := program.Run()
	return err
}
