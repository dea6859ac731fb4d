// Command dashboard is a terminal UI over a dataset analysis report and a
// running risk API: dataset overview, distribution and correlation charts,
// and a live prediction feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/privalytics/riskpipe/pkg/analysis"
	"github.com/privalytics/riskpipe/pkg/config"
	"github.com/privalytics/riskpipe/pkg/dashboard"
	"github.com/privalytics/riskpipe/pkg/dataset"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	overviewView view = iota
	distributionsView
	numericView
	correlationsView
	liveView

	viewCount = 5
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev column"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next column"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Left, k.Right, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Quit},
	}
}

// livePrediction is one entry in the live feed.
type livePrediction struct {
	deviceID string
	label    string
	level    int
	err      error
}

type model struct {
	report       *analysis.Report
	client       *dashboard.Client
	sample       []dataset.Record
	sampleIdx    int
	currentView  view
	columns      []string
	columnIdx    int
	numericTable table.Model
	help         help.Model
	keys         keyMap
	width        int
	height       int
	startTime    time.Time
	health       string
	healthErr    error
	feed         []livePrediction
}

type tickMsg time.Time

// liveMsg carries one polling round's results back into the update loop.
type liveMsg struct {
	health     string
	healthErr  error
	prediction *livePrediction
}

func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) pollCmd() tea.Cmd {
	client := m.client
	var record *dataset.Record
	if len(m.sample) > 0 {
		r := m.sample[m.sampleIdx%len(m.sample)]
		record = &r
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		msg := liveMsg{}
		hs, err := client.Health(ctx)
		if err != nil {
			msg.healthErr = err
		} else {
			msg.health = hs.Status
		}

		if record != nil {
			p := livePrediction{deviceID: record.DeviceID}
			pred, err := client.Predict(ctx, *record)
			if err != nil {
				p.err = err
			} else {
				p.label = pred.Label
				p.level = pred.RiskLevel
			}
			msg.prediction = &p
		}
		return msg
	}
}

func initialModel(report *analysis.Report, client *dashboard.Client, sample []dataset.Record) model {
	tableColumns := []table.Column{
		{Title: "Column", Width: 24},
		{Title: "Mean", Width: 8},
		{Title: "Std", Width: 8},
		{Title: "Min", Width: 8},
		{Title: "Median", Width: 8},
		{Title: "Max", Width: 8},
	}

	rows := make([]table.Row, 0, len(report.Numeric))
	for _, row := range dashboard.NumericRows(report) {
		rows = append(rows, table.Row(row))
	}

	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	return model{
		report:       report,
		client:       client,
		sample:       sample,
		currentView:  overviewView,
		columns:      dashboard.CategoricalColumns(report),
		numericTable: t,
		help:         help.New(),
		keys:         keys,
		startTime:    time.Now(),
		health:       "unknown",
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.pollCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		return m, tea.Batch(tickCmd(), m.pollCmd())

	case liveMsg:
		m.health = msg.health
		m.healthErr = msg.healthErr
		if msg.prediction != nil {
			m.sampleIdx++
			m.feed = append(m.feed, *msg.prediction)
			if len(m.feed) > 10 {
				m.feed = m.feed[len(m.feed)-10:]
			}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}

		case key.Matches(msg, m.keys.Left):
			if m.currentView == distributionsView && len(m.columns) > 0 {
				m.columnIdx = (m.columnIdx + len(m.columns) - 1) % len(m.columns)
			}

		case key.Matches(msg, m.keys.Right):
			if m.currentView == distributionsView && len(m.columns) > 0 {
				m.columnIdx = (m.columnIdx + 1) % len(m.columns)
			}
		}
	}

	if m.currentView == numericView {
		m.numericTable, cmd = m.numericTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🛡 IoT Privacy Risk Dashboard"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case overviewView:
		s.WriteString(m.renderOverview())
	case distributionsView:
		s.WriteString(m.renderDistributions())
	case numericView:
		s.WriteString(m.renderNumeric())
	case correlationsView:
		s.WriteString(m.renderCorrelations())
	case liveView:
		s.WriteString(m.renderLive())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Overview", "Distributions", "Numeric", "Correlations", "Live"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderOverview() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	statsContent := fmt.Sprintf(`📊 Dataset
━━━━━━━━━━━━━━━
Records:   %d
Numeric:   %d columns
Category:  %d columns
Session:   %s`,
		m.report.Records,
		len(m.report.Numeric),
		len(m.report.Categorical),
		uptime,
	)

	var dist strings.Builder
	dist.WriteString("⚠ Risk Levels\n━━━━━━━━━━━━━━━\n")
	for _, bar := range dashboard.RiskDistribution(m.report) {
		dist.WriteString(fmt.Sprintf("%-10s %5d %s\n",
			bar.Label, bar.Count, barStyle.Render(dashboard.RenderBar(bar.Fraction, 30))))
	}

	var drivers strings.Builder
	drivers.WriteString("📈 Risk Drivers\n━━━━━━━━━━━━━━━\n")
	positive, negative := dashboard.RiskDrivers(m.report, 3)
	for _, c := range positive {
		drivers.WriteString(fmt.Sprintf("%-24s %+.3f\n", c.Column, c.Coefficient))
	}
	for _, c := range negative {
		drivers.WriteString(fmt.Sprintf("%-24s %+.3f\n", c.Column, c.Coefficient))
	}

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top,
			statsBoxStyle.Render(statsContent),
			statsBoxStyle.Render(strings.TrimRight(dist.String(), "\n")),
			statsBoxStyle.Render(strings.TrimRight(drivers.String(), "\n")),
		),
	)
}

func (m model) renderDistributions() string {
	var s strings.Builder

	if len(m.columns) == 0 {
		s.WriteString(helpStyle.Render("No categorical columns in the report"))
		return contentStyle.Render(s.String())
	}

	column := m.columns[m.columnIdx]
	s.WriteString(headerStyle.Render(fmt.Sprintf("Distribution: %s (%d/%d)",
		column, m.columnIdx+1, len(m.columns))))
	s.WriteString("\n\n")

	for _, bar := range dashboard.CategoricalBars(m.report, column) {
		s.WriteString(fmt.Sprintf("%-20s %5d  %4.1f%%  %s\n",
			bar.Label, bar.Count, bar.Fraction*100,
			barStyle.Render(dashboard.RenderBar(bar.Fraction, 40))))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Cycle columns with ←/→"))

	return contentStyle.Render(s.String())
}

func (m model) renderNumeric() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Numeric Summaries"))
	s.WriteString("\n\n")
	s.WriteString(m.numericTable.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓"))

	return contentStyle.Render(s.String())
}

func (m model) renderCorrelations() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Correlation Matrix"))
	s.WriteString("\n\n")

	if m.report.Correlations == nil {
		s.WriteString(helpStyle.Render("No correlation data in the report"))
		return contentStyle.Render(s.String())
	}

	for _, row := range dashboard.CorrelationGrid(m.report.Correlations) {
		s.WriteString(row)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Shade strength: · ░ ▒ ▓ █ with sign, columns in matrix order"))

	return contentStyle.Render(s.String())
}

func (m model) renderLive() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Live Predictions"))
	s.WriteString("\n\n")

	switch {
	case m.healthErr != nil:
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ API unreachable: %v", m.healthErr)))
	case m.health == "ok":
		s.WriteString(successStyle.Render("✓ API healthy"))
	default:
		s.WriteString(errorStyle.Render(fmt.Sprintf("⚠ API status: %s", m.health)))
	}
	s.WriteString("\n\n")

	if len(m.sample) == 0 {
		s.WriteString(helpStyle.Render("No sample records loaded; pass -data to stream predictions"))
		return contentStyle.Render(s.String())
	}

	for _, p := range m.feed {
		if p.err != nil {
			s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %-18s %v", p.deviceID, p.err)))
		} else {
			bar := barStyle.Render(strings.Repeat("█", p.level*6))
			s.WriteString(fmt.Sprintf("  %-18s level %d  %-10s %s", p.deviceID, p.level, p.label, bar))
		}
		s.WriteString("\n")
	}

	if len(m.feed) == 0 {
		s.WriteString(helpStyle.Render("Waiting for first prediction..."))
	}

	return contentStyle.Render(s.String())
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	reportDir := flag.String("report", "", "Analysis report directory (default: config analysis dir)")
	apiURL := flag.String("api", "", "Risk API base URL (default: config server address)")
	dataPath := flag.String("data", "", "CSV of records for the live feed (default: <processed_dir>/test.csv)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dir := *reportDir
	if dir == "" {
		dir = cfg.Paths.AnalysisDir
	}
	report, err := analysis.ReadReport(dir)
	if err != nil {
		log.Fatalf("Failed to load analysis report from %s: %v (run analyze-dataset first)", dir, err)
	}

	baseURL := *apiURL
	if baseURL == "" {
		baseURL = "http://" + cfg.Addr()
	}

	csvPath := *dataPath
	if csvPath == "" {
		csvPath = filepath.Join(cfg.Paths.ProcessedDir, "test.csv")
	}
	sample, err := dataset.ReadCSVFile(csvPath)
	if err != nil {
		// The live feed degrades to health-only without records.
		fmt.Fprintf(os.Stderr, "Warning: no live feed records: %v\n", err)
		sample = nil
	}
	sample = dashboard.SampleRecords(sample, 50)

	p := tea.NewProgram(initialModel(report, dashboard.NewClient(baseURL), sample), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
