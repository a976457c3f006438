package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/Nutripedia/internal/emoji"
	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/Nutripedia/internal/loader"
	"github.com/yildizm/Nutripedia/internal/ui/components"
)

const (
	maxColumnWidth   = 32
	minTableHeight   = 3
	defaultTableRows = 15
	// lines taken by title, search box, status and help
	chromeHeight = 9
	summaryWidth = 44
)

// BrowseModel is the interactive food browser
type BrowseModel struct {
	ctx     context.Context
	source  DataSource
	columns []food.Column
	changes <-chan string

	view    View
	gen     int
	dataset *food.Dataset
	report  *food.Report
	state   food.ViewState
	err     error

	table       table.Model
	search      textinput.Model
	searching   bool
	showSummary bool
	showHelp    bool

	width    int
	height   int
	ready    bool
	quitting bool
	ticking  bool

	spinner *components.Spinner
	styles  *Styles
}

// Animation message
type tickMsg time.Time

// Animation command
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// NewBrowseModel creates the browser in its loading state
func NewBrowseModel(source DataSource, opts Options) *BrowseModel {
	columns := opts.Columns
	if len(columns) == 0 {
		columns = food.DefaultColumns()
	}
	styles := GetStyles()

	search := textinput.New()
	search.Placeholder = "Search foods..."
	search.Prompt = emoji.GetEmoji("search") + " "
	search.CharLimit = 64
	search.Width = 40
	search.SetValue(opts.State.Filter)

	t := table.New(
		table.WithColumns(tableColumns(columns, opts.State, nil)),
		table.WithFocused(true),
		table.WithHeight(defaultTableRows),
	)
	t.SetStyles(styles.TableStyles())

	spinner := components.NewSpinner("Loading food data...")
	spinner.Style = styles.Spinner

	return &BrowseModel{
		ctx:         context.Background(),
		source:      source,
		columns:     columns,
		changes:     opts.Changes,
		view:        ViewLoading,
		state:       opts.State,
		table:       t,
		search:      search,
		showSummary: opts.ShowSummary,
		spinner:     spinner,
		styles:      styles,
	}
}

// Init starts the first load
func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(
		m.startLoad(),
		waitForChange(m.changes),
	)
}

// Update handles messages
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick()
	case dataLoadedMsg:
		return m.handleDataLoaded(msg)
	case dataErrorMsg:
		return m.handleDataError(msg)
	case fileChangedMsg:
		return m.handleFileChanged()
	}
	return m, nil
}

// State returns the current filter and sort
func (m *BrowseModel) State() food.ViewState {
	return m.state
}

// Report returns the report behind the visible table, nil until loaded
func (m *BrowseModel) Report() *food.Report {
	return m.report
}

// CurrentView returns the active view
func (m *BrowseModel) CurrentView() View {
	return m.view
}

// startLoad enters the loading state and issues a new load. Results of
// earlier loads still in flight are dropped.
func (m *BrowseModel) startLoad() tea.Cmd {
	m.gen++
	m.view = ViewLoading
	m.err = nil

	cmds := []tea.Cmd{CreateLoadCommand(m.ctx, m.source, m.gen)}
	if !m.ticking {
		m.ticking = true
		cmds = append(cmds, tick())
	}
	return tea.Batch(cmds...)
}

// refresh recomputes the report from the dataset and current state
func (m *BrowseModel) refresh() {
	m.report = food.NewReport(m.dataset, m.state, m.columns)

	rows := make([]table.Row, 0, len(m.report.Rows))
	for _, rec := range m.report.Rows {
		rows = append(rows, table.Row(m.report.Cells(rec)))
	}

	m.table.SetColumns(tableColumns(m.columns, m.state, rows))
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// tableColumns sizes each column to its widest cell
func tableColumns(columns []food.Column, state food.ViewState, rows []table.Row) []table.Column {
	out := make([]table.Column, len(columns))
	for i, c := range columns {
		title := food.HeaderLabel(c, state)
		width := lipgloss.Width(title)
		for _, row := range rows {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		out[i] = table.Column{Title: title, Width: min(width, maxColumnWidth)}
	}
	return out
}

// Handler functions for Update method

func (m *BrowseModel) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.resizeTable()
	return m, nil
}

func (m *BrowseModel) resizeTable() {
	if m.height == 0 {
		return
	}
	height := m.height - chromeHeight
	m.table.SetHeight(max(height, minTableHeight))

	width := m.width - 2
	if m.showSummary && m.width > summaryWidth*2 {
		width -= summaryWidth
	}
	m.table.SetWidth(max(width, 20))
}

// handleKeyPress routes keys by view; while searching every key but
// ctrl+c, esc and enter edits the query
func (m *BrowseModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	switch m.view {
	case ViewLoading:
		if msg.String() == "q" {
			return m.handleQuit()
		}
		return m, nil
	case ViewError:
		switch msg.String() {
		case "q", "esc":
			return m.handleQuit()
		case "r":
			return m, m.startLoad()
		}
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	key := msg.String()
	switch key {
	case "q":
		return m.handleQuit()
	case "/":
		return m.handleFocusSearch()
	case "esc":
		return m.handleEscape()
	case "tab":
		m.showSummary = !m.showSummary
		m.resizeTable()
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "r":
		return m, m.startLoad()
	case "0":
		return m.handleClearSort()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m.handleSortKey(key)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *BrowseModel) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *BrowseModel) handleFocusSearch() (tea.Model, tea.Cmd) {
	m.searching = true
	m.table.Blur()
	return m, m.search.Focus()
}

func (m *BrowseModel) blurSearch() {
	m.searching = false
	m.search.Blur()
	m.table.Focus()
}

// handleSearchKey feeds the search box and filters on every keystroke
func (m *BrowseModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.blurSearch()
		return m, nil
	case "esc":
		m.blurSearch()
		m.search.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *BrowseModel) applyFilter() {
	if m.search.Value() == m.state.Filter {
		return
	}
	m.state = m.state.WithFilter(m.search.Value())
	m.refresh()
}

// handleEscape closes help first, then clears an active filter
func (m *BrowseModel) handleEscape() (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.state.Filter != "" {
		m.search.SetValue("")
		m.applyFilter()
	}
	return m, nil
}

// handleSortKey toggles the sort on the n-th sortable column
func (m *BrowseModel) handleSortKey(key string) (tea.Model, tea.Cmd) {
	n, err := strconv.Atoi(key)
	if err != nil {
		return m, nil
	}
	sortable := food.SortableColumns(m.columns)
	if n < 1 || n > len(sortable) {
		return m, nil
	}
	m.state = m.state.Toggle(sortable[n-1].Key)
	m.refresh()
	return m, nil
}

func (m *BrowseModel) handleClearSort() (tea.Model, tea.Cmd) {
	if !m.state.Sorted() {
		return m, nil
	}
	m.state = m.state.Clear()
	m.refresh()
	return m, nil
}

func (m *BrowseModel) handleTick() (tea.Model, tea.Cmd) {
	if m.view != ViewLoading {
		m.ticking = false
		return m, nil
	}
	m.spinner.Tick()
	return m, tick()
}

func (m *BrowseModel) handleDataLoaded(msg dataLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	m.dataset = msg.dataset
	m.err = nil
	m.view = ViewTable
	m.refresh()
	return m, nil
}

// handleDataError drops any previous data; the error view replaces the table
func (m *BrowseModel) handleDataError(msg dataErrorMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	m.dataset = nil
	m.report = nil
	m.err = msg.err
	m.view = ViewError
	m.blurSearch()
	return m, nil
}

func (m *BrowseModel) handleFileChanged() (tea.Model, tea.Cmd) {
	return m, tea.Batch(m.startLoad(), waitForChange(m.changes))
}

// View renders the model
func (m *BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.view {
	case ViewLoading:
		content = m.renderLoadingScreen()
	case ViewError:
		content = m.renderErrorScreen()
	default:
		content = m.renderBrowser()
	}

	if !m.ready || m.view == ViewTable {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *BrowseModel) renderLoadingScreen() string {
	return m.styles.Box.Render(m.spinner.Render())
}

// renderErrorScreen shows the single user-facing failure message
func (m *BrowseModel) renderErrorScreen() string {
	message := m.styles.Error.Render(emoji.GetEmoji("error") + " " + loader.UserMessage)
	hint := m.styles.Muted.Render("r retry • q quit")
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Center, message, "", hint))
}

func (m *BrowseModel) renderBrowser() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderSearchBar())

	tableView := m.table.View()
	if len(m.report.Rows) == 0 {
		tableView = lipgloss.JoinVertical(lipgloss.Left, tableView, m.styles.Muted.Render("No foods match your search."))
	}
	if m.showSummary {
		tableView = lipgloss.JoinHorizontal(lipgloss.Top, tableView, "  ", m.renderSummary())
	}
	sections = append(sections, tableView)

	sections = append(sections, m.styles.Muted.Render(m.report.Description()))
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, m.renderHints())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *BrowseModel) renderTitle() string {
	return m.styles.Title.Render(emoji.GetEmoji("food") + " Nutripedia")
}

func (m *BrowseModel) renderSearchBar() string {
	style := m.styles.Search
	if m.searching {
		style = m.styles.SearchFocused
	}
	return style.Render(m.search.View())
}

func (m *BrowseModel) renderSummary() string {
	dashboard := components.CreateSummaryStats(m.report)
	dashboard.SetCardSize(summaryWidth/2-2, 3)

	parts := []string{
		m.styles.Summary.Render(emoji.GetEmoji("summary") + " Summary"),
		dashboard.Render(),
		components.TopFoodsBox(m.report.Summary, summaryWidth).Render(),
		components.CaloricGroupsBox(m.report.Summary, summaryWidth).Render(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *BrowseModel) renderHints() string {
	hints := []string{
		m.key("/") + " search",
		m.key(sortKeyRange(m.columns)) + " sort",
		m.key("0") + " unsort",
		m.key("tab") + " summary",
		m.key("r") + " reload",
		m.key("?") + " help",
		m.key("q") + " quit",
	}
	return strings.Join(hints, "  ")
}

func (m *BrowseModel) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(emoji.GetEmoji("help")+" Keys") + "\n")
	for i, c := range food.SortableColumns(m.columns) {
		if i >= 9 {
			break
		}
		fmt.Fprintf(&b, "  %s  sort by %s (again to flip direction)\n", m.key(strconv.Itoa(i+1)), c.Label)
	}
	fmt.Fprintf(&b, "  %s  clear sort\n", m.key("0"))
	fmt.Fprintf(&b, "  %s  search by name, %s keeps it, %s clears it\n", m.key("/"), m.key("enter"), m.key("esc"))
	fmt.Fprintf(&b, "  %s  move through rows\n", m.key("↑/↓"))
	fmt.Fprintf(&b, "  %s  show or hide the summary\n", m.key("tab"))
	fmt.Fprintf(&b, "  %s  reload the data\n", m.key("r"))
	fmt.Fprintf(&b, "  %s  quit", m.key("q"))
	return b.String()
}

func (m *BrowseModel) key(k string) string {
	return m.styles.Key.Render("[" + k + "]")
}

func sortKeyRange(columns []food.Column) string {
	n := min(len(food.SortableColumns(columns)), 9)
	if n <= 1 {
		return "1"
	}
	return fmt.Sprintf("1-%d", n)
}

// Run runs the interactive browser until the user quits
func Run(ctx context.Context, source DataSource, opts Options) error {
	model := NewBrowseModel(source, opts)
	model.ctx = ctx
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
