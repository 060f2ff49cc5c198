package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nathfavour/statussage/pkg/catalog"
	"github.com/nathfavour/statussage/pkg/llm"
)

var (
	// Colors
	purple = lipgloss.Color("#7D56F4")
	green  = lipgloss.Color("#04B575")
	red    = lipgloss.Color("#ED567A")
	gray   = lipgloss.Color("#626262")
	white  = lipgloss.Color("#FAFAFA")

	// Styles
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(white).
			Background(purple).
			Padding(0, 1).
			MarginBottom(1)

	styleSectionTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(purple).
				MarginBottom(1)

	styleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(purple)

	styleResult = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1).
			Width(56)

	styleFooter = lipgloss.NewStyle().
			Foreground(gray).
			MarginTop(1)

	styleBackend  = lipgloss.NewStyle().Foreground(green)
	styleFallback = lipgloss.NewStyle().Foreground(red)
)

const descriptionWidth = 40

// Generator is the part of *llm.Generator the picker drives.
type Generator interface {
	GenerateContext(ctx context.Context, statusType catalog.StatusType) llm.Result
	Provider() string
}

type resultMsg struct {
	statusType catalog.StatusType
	result     llm.Result
}

type Model struct {
	ctx      context.Context
	gen      Generator
	catalog  *catalog.Catalog
	types    []catalog.StatusType
	cursor   int
	spinner  spinner.Model
	busy     bool
	last     *resultMsg
	history  int
	nameCols int
}

func NewModel(ctx context.Context, cat *catalog.Catalog, gen Generator) Model {
	types := cat.Types()
	cols := 0
	for _, t := range types {
		if w := runewidth.StringWidth(string(t)); w > cols {
			cols = w
		}
	}

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(purple)),
	)

	return Model{
		ctx:      ctx,
		gen:      gen,
		catalog:  cat,
		types:    types,
		spinner:  s,
		nameCols: cols,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) generate(statusType catalog.StatusType) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{
			statusType: statusType,
			result:     m.gen.GenerateContext(m.ctx, statusType),
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.busy = false
		m.last = &msg
		m.history++
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.types)-1 {
				m.cursor++
			}
		case "enter", " ", "r":
			if m.busy || len(m.types) == 0 {
				return m, nil
			}
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, m.generate(m.types[m.cursor]))
		}
	}
	return m, nil
}

func (m Model) View() string {
	header := styleHeader.Render(fmt.Sprintf("StatusSage  provider: %s", m.gen.Provider()))

	var list strings.Builder
	list.WriteString(styleSectionTitle.Render("STATUS TYPES") + "\n")
	for i, t := range m.types {
		name := runewidth.FillRight(string(t), m.nameCols)
		desc := runewidth.Truncate(m.catalog.Describe(t), descriptionWidth, "…")
		line := fmt.Sprintf("  %s  %s", name, desc)
		if i == m.cursor {
			line = styleSelected.Render("> " + name + "  " + desc)
		}
		list.WriteString(line + "\n")
	}

	var result string
	switch {
	case m.busy:
		result = m.spinner.View() + " generating..."
	case m.last != nil:
		source := styleBackend.Render(m.last.result.Source)
		if m.last.result.Source == llm.SourceFallback {
			source = styleFallback.Render(m.last.result.Source)
		}
		result = styleResult.Render(fmt.Sprintf("%s\n\n%s · %s · #%d", m.last.result.Text, m.last.statusType, source, m.history))
	}

	footer := styleFooter.Render("[↑/↓] Choose • [enter] Generate • [q] Quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, list.String(), result, footer)
}
