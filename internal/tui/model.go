package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/CaptShanks/msrdoc/internal/parser"
	"github.com/CaptShanks/msrdoc/internal/updater"
)

// keyMap holds the normal-mode key bindings
type keyMap struct {
	Quit         key.Binding
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	Expand       key.Binding
	Collapse     key.Binding
	ExpandAll    key.Binding
	CollapseAll  key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Search       key.Binding
	Clear        key.Binding
}

var keys = keyMap{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Up:           key.NewBinding(key.WithKeys("k", "up")),
	Down:         key.NewBinding(key.WithKeys("j", "down")),
	Toggle:       key.NewBinding(key.WithKeys("enter", " ")),
	Expand:       key.NewBinding(key.WithKeys("l", "right")),
	Collapse:     key.NewBinding(key.WithKeys("h", "left", "backspace")),
	ExpandAll:    key.NewBinding(key.WithKeys("e")),
	CollapseAll:  key.NewBinding(key.WithKeys("c")),
	HalfPageDown: key.NewBinding(key.WithKeys("d", "ctrl+d")),
	HalfPageUp:   key.NewBinding(key.WithKeys("u", "ctrl+u")),
	Top:          key.NewBinding(key.WithKeys("g")),
	Bottom:       key.NewBinding(key.WithKeys("G")),
	Search:       key.NewBinding(key.WithKeys("/")),
	Clear:        key.NewBinding(key.WithKeys("esc")),
}

// Model is the register browser state
type Model struct {
	report        *parser.Report
	cursor        int
	expanded      map[int]bool // keyed by row index
	viewport      viewport.Model
	ready         bool
	width         int
	height        int
	searching     bool
	searchInput   textinput.Model
	searchQuery   string
	searchMatches []int // row indices matching searchQuery
	pendingG      bool  // 'g' pressed, waiting for the second 'g'
	rowLineStarts []int // rendered line offset per displayed row

	// Update nudge
	checker         *updater.Checker
	currentVersion  string
	updateAvailable string
}

// UpdateAvailableMsg is sent when an update check finds a newer version.
type UpdateAvailableMsg struct {
	Version string
}

// NewModel creates a browser over report. A nil checker disables the
// update nudge.
func NewModel(report *parser.Report, version string, checker *updater.Checker) Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		report:         report,
		expanded:       make(map[int]bool),
		searchInput:    ti,
		checker:        checker,
		currentVersion: version,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.checker == nil || m.currentVersion == "" {
		return nil
	}
	return checkUpdateCmd(m.checker, m.currentVersion)
}

// checkUpdateCmd runs an async update check and sends UpdateAvailableMsg if an update is available.
func checkUpdateCmd(c *updater.Checker, version string) tea.Cmd {
	return func() tea.Msg {
		latest, hasUpdate, err := c.CheckLatestWithCache(version)
		if err != nil || !hasUpdate {
			return nil
		}
		return UpdateAvailableMsg{Version: latest}
	}
}

const headerHeight = 4 // title + summary + blank line

// searchBarHeight is the number of lines viewSearchBar takes.
func (m Model) searchBarHeight() int {
	if m.searching || m.searchQuery != "" {
		return 2
	}
	return 0
}

func (m Model) viewportHeight() int {
	return max(1, m.height-headerHeight-m.footerHeight()-m.searchBarHeight())
}

func (m Model) footerHeight() int {
	if m.updateAvailable != "" {
		return 4
	}
	return 3
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case UpdateAvailableMsg:
		m.updateAvailable = msg.Version
		if m.ready {
			m.viewport.Height = m.viewportHeight()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, m.viewportHeight())
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = m.viewportHeight()
		}
		m.updateViewportContent()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleNormalKey(msg)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.performSearch()
	default:
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.searchQuery = m.searchInput.Value()
		m.performSearch()
	}
	m.updateViewportContent()
	m.ensureCursorVisible()
	return m, cmd
}

// handleNormalKey handles key presses in normal (non-search) mode
func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, keys.Top) {
		m.pendingG = false
	}

	displayed := m.displayedRows()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(displayed)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Toggle):
		if idx, ok := m.currentRow(); ok {
			m.expanded[idx] = !m.expanded[idx]
		}

	case key.Matches(msg, keys.Expand):
		if idx, ok := m.currentRow(); ok {
			m.expanded[idx] = true
		}

	case key.Matches(msg, keys.Collapse):
		if idx, ok := m.currentRow(); ok {
			m.expanded[idx] = false
		}

	case key.Matches(msg, keys.ExpandAll):
		for _, idx := range displayed {
			m.expanded[idx] = true
		}

	case key.Matches(msg, keys.CollapseAll):
		for _, idx := range displayed {
			m.expanded[idx] = false
		}

	case key.Matches(msg, keys.HalfPageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
		return m, nil

	case key.Matches(msg, keys.HalfPageUp):
		m.viewport.SetYOffset(max(0, m.viewport.YOffset-m.viewport.Height/2))
		return m, nil

	case key.Matches(msg, keys.Top):
		if !m.pendingG {
			m.pendingG = true
			return m, nil
		}
		m.pendingG = false
		m.cursor = 0

	case key.Matches(msg, keys.Bottom):
		if len(displayed) > 0 {
			m.cursor = len(displayed) - 1
		}

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.searchInput.Focus()
		m.updateViewportContent()
		return m, textinput.Blink

	case key.Matches(msg, keys.Clear):
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.performSearch()

	default:
		return m, nil
	}

	m.updateViewportContent()
	m.ensureCursorVisible()
	return m, nil
}

// displayedRows returns the row indices currently shown: all rows, or only
// the search matches while a query is active.
func (m *Model) displayedRows() []int {
	if m.searchQuery == "" {
		indices := make([]int, len(m.report.Rows))
		for i := range m.report.Rows {
			indices[i] = i
		}
		return indices
	}
	return m.searchMatches
}

func (m *Model) currentRow() (int, bool) {
	displayed := m.displayedRows()
	if m.cursor < 0 || m.cursor >= len(displayed) {
		return 0, false
	}
	return displayed[m.cursor], true
}

// fuzzyMatch returns true if all characters in query appear in text in order
// (not necessarily consecutive). E.g. "1a0" matches "0x000001A0".
func fuzzyMatch(text, query string) bool {
	text = strings.ToLower(text)
	query = strings.ToLower(query)
	if query == "" {
		return true
	}
	qi := 0
	for i := 0; i < len(text) && qi < len(query); i++ {
		if text[i] == query[qi] {
			qi++
		}
	}
	return qi == len(query)
}

// searchText is what a query is matched against for a row.
func searchText(row parser.Row) string {
	return strings.Join([]string{
		rowAddress(row),
		row.Token.Text,
		string(row.Token.Kind),
		row.Text,
	}, " ")
}

func (m *Model) performSearch() {
	m.searchMatches = nil
	m.cursor = 0

	terms := strings.Fields(strings.ToLower(m.searchQuery))
	if len(terms) == 0 {
		return
	}

	for i, row := range m.report.Rows {
		searchable := searchText(row)
		allMatch := true
		for _, term := range terms {
			if !fuzzyMatch(searchable, term) {
				allMatch = false
				break
			}
		}
		if allMatch {
			m.searchMatches = append(m.searchMatches, i)
		}
	}
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.Height = m.viewportHeight()
	m.viewport.SetContent(m.renderRows())
}

// ensureCursorVisible scrolls the viewport to make the current cursor visible
func (m *Model) ensureCursorVisible() {
	if !m.ready || m.cursor < 0 || m.cursor >= len(m.rowLineStarts) {
		return
	}

	lineNum := m.rowLineStarts[m.cursor]
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1

	if lineNum < top {
		m.viewport.SetYOffset(lineNum)
	} else if lineNum > bottom {
		m.viewport.SetYOffset(max(0, lineNum-m.viewport.Height+1))
	}
}

func (m *Model) renderRows() string {
	var b strings.Builder
	lineCount := 0

	displayed := m.displayedRows()
	m.rowLineStarts = make([]int, len(displayed))

	if len(displayed) == 0 {
		if m.searchQuery != "" {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("No rows match search '%s'. Press Esc to clear.", m.searchQuery)))
		} else {
			b.WriteString(mutedStyle.Render("No register rows in this window."))
		}
		b.WriteString("\n")
		return b.String()
	}

	for displayIdx, rowIdx := range displayed {
		m.rowLineStarts[displayIdx] = lineCount
		row := m.report.Rows[rowIdx]
		expanded := m.expanded[rowIdx]

		if displayIdx == m.cursor {
			b.WriteString(m.renderSelectedRow(row, expanded))
		} else {
			b.WriteString(m.renderRow(row, expanded))
		}
		b.WriteString("\n")
		lineCount++

		if expanded {
			detail := m.renderDetail(row)
			b.WriteString(detail)
			lineCount += strings.Count(detail, "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("── End of Window ──"))
	b.WriteString("\n")

	return b.String()
}

func indicator(expanded bool) string {
	if expanded {
		return "▼"
	}
	return "▶"
}

func (m Model) renderRow(row parser.Row, expanded bool) string {
	address := rowAddress(row)
	if m.searchQuery != "" {
		address = highlightMatch(address, m.searchQuery)
	}
	return fmt.Sprintf("%s %s %s %s",
		mutedStyle.Render(indicator(expanded)),
		KindSymbol(row.Token.Kind),
		KindStyle(row.Token.Kind).Render(address),
		mutedStyle.Render(rowDetail(row)),
	)
}

// renderSelectedRow renders a row with full-width background highlight
func (m Model) renderSelectedRow(row parser.Row, expanded bool) string {
	line := fmt.Sprintf("%s %s %s", indicator(expanded), rowAddress(row), rowDetail(row))
	if target := m.width - 4; target > 0 && lipgloss.Width(line) < target {
		line += strings.Repeat(" ", target-lipgloss.Width(line))
	}
	return selectedStyle.Foreground(kindColor(row.Token.Kind)).Render(line)
}

// renderDetail renders the expanded part of a row: the wrapped source line
// and, for ranges, the first and last register.
func (m Model) renderDetail(row parser.Row) string {
	var b strings.Builder
	indent := "    "

	width := m.viewport.Width - len(indent)
	text := row.Text
	if width > 10 {
		text = wordwrap.String(text, width)
	}
	for _, l := range strings.Split(text, "\n") {
		b.WriteString(indent + textStyle.Render(l) + "\n")
	}

	switch row.Token.Kind {
	case parser.KindRange:
		if row.Count() > 0 {
			b.WriteString(indent + mutedStyle.Render(fmt.Sprintf("first %s, last %s",
				parser.FormatAddress(row.Token.Low), parser.FormatAddress(row.Token.High))) + "\n")
		}
	case parser.KindFamily:
		b.WriteString(indent + mutedStyle.Render("members are not listed in the manual row; reported separately") + "\n")
	}
	return b.String()
}

func highlightMatch(text, query string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if idx == -1 {
		return text
	}
	return text[:idx] + matchStyle.Render(text[idx:idx+len(query)]) + text[idx+len(query):]
}

func (m Model) viewHeader() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(reportTitle(m.report)))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render("  " + summaryLine(m.report)))
	b.WriteString("\n\n")
	return b.String()
}

func (m Model) viewSearchBar() string {
	if m.searching {
		return searchStyle.Render("Search: ") + m.searchInput.View() + "\n\n"
	}
	if m.searchQuery != "" {
		return searchStyle.Render(fmt.Sprintf("Search: %q (%d matches)", m.searchQuery, len(m.searchMatches))) + "\n\n"
	}
	return ""
}

func (m Model) viewUpdateNudge() string {
	if m.updateAvailable == "" {
		return ""
	}
	nudgeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Italic(true)
	return "\n" + nudgeStyle.Render(fmt.Sprintf("Update available: v%s. Run 'msrdoc upgrade' to update.", m.updateAvailable))
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString(m.viewSearchBar())
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: navigate • l/h: expand/collapse • d/u: scroll • e/c: all • gg/G: top/bottom • /: search • q: quit"))
	b.WriteString(m.viewUpdateNudge())
	return appStyle.Render(b.String())
}

// Run opens the browser on the terminal's alternate screen.
func Run(report *parser.Report, version string, checker *updater.Checker) error {
	p := tea.NewProgram(
		NewModel(report, version, checker),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
