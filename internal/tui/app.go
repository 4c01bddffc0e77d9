package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nickproject/rxinsight/internal/analyzer"
	"github.com/nickproject/rxinsight/internal/parser"
)

// Config TUI 配置
type Config struct {
	Source    string
	Encoding  string
	Threshold int
}

// Model TUI 模型
type Model struct {
	config      Config
	blocks      []analyzer.BlockReport
	filterInput textinput.Model
	filtering   bool
	filterText  string
	selected    int
	width       int
	height      int
	showHelp    bool
}

// New 创建 TUI 模型
func New(cfg Config, res analyzer.Result) Model {
	ti := textinput.New()
	ti.Placeholder = "按 RX 标签过滤..."
	ti.CharLimit = 50

	return Model{
		config:      cfg,
		blocks:      res.Blocks,
		filterInput: ti,
		width:       80,
		height:      24,
	}
}

// Init 初始化
func (m Model) Init() tea.Cmd {
	return nil
}

// Update 更新状态
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterInput(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case "?":
		m.showHelp = true
	case "up", "k", "left", "h":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j", "right", "l":
		if m.selected < len(m.blocks)-1 {
			m.selected++
		}
	case "home":
		m.selected = 0
	case "end":
		if len(m.blocks) > 0 {
			m.selected = len(m.blocks) - 1
		}
	}
	return m, nil
}

func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filterText = m.filterInput.Value()
		m.filtering = false
		m.filterInput.Blur()
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue(m.filterText)
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// visibleBars 返回当前过滤条件下的柱
func (m Model) visibleBars(b *analyzer.BlockReport) []parser.Bar {
	if m.filterText == "" {
		return b.Bars
	}
	filter := strings.ToLower(m.filterText)
	bars := make([]parser.Bar, 0, len(b.Bars))
	for _, bar := range b.Bars {
		if strings.Contains(strings.ToLower(bar.Label), filter) {
			bars = append(bars, bar)
		}
	}
	return bars
}

// View 渲染视图
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if len(m.blocks) == 0 {
		b.WriteString(warningStyle.Render(" 没有找到包含 RX 数据的接口块"))
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
		return b.String()
	}

	list := m.renderList()
	detail := m.renderDetail(&m.blocks[m.selected])
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, detail))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	failed := 0
	for i := range m.blocks {
		if m.blocks[i].Failed() {
			failed++
		}
	}

	line1 := fmt.Sprintf(" rxinsight | File: %s | Encoding: %s",
		TruncateString(m.config.Source, 40), m.config.Encoding)
	line2 := fmt.Sprintf(" Blocks: %d | Parse failures: %d | Low block threshold: %d",
		len(m.blocks), failed, m.config.Threshold)

	return titleStyle.Render(line1) + "\n" + headerStyle.Render(line2)
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(PadRight("Block", listWidth-2)))
	b.WriteString("\n")

	maxRows := m.height - 8
	if maxRows < 1 {
		maxRows = 10
	}
	start := 0
	if m.selected >= maxRows {
		start = m.selected - maxRows + 1
	}

	for i := start; i < len(m.blocks) && i < start+maxRows; i++ {
		blk := &m.blocks[i]
		label := fmt.Sprintf("#%d  low:%d", blk.Ordinal, len(blk.LowBlocks))
		if blk.Failed() {
			label += " !"
		}
		row := PadRight(label, listWidth-4)
		if i == m.selected {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(tableRowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	return listStyle.Render(b.String())
}

func (m Model) renderDetail(blk *analyzer.BlockReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Interface Block %d", blk.Ordinal)))
	b.WriteString("\n")

	if c := blk.Counters; c != nil {
		fmt.Fprintf(&b, "Packets_Input: %s  No Buffer: %s  Overruns: %s\n",
			FormatCount(c.PacketsInput), FormatCount(c.NoBuffer), FormatCount(c.Overruns))
		fmt.Fprintf(&b, "No Buffer: %s  Overruns: %s\n",
			pctStyle(c.NoBufferPercentage).Render(fmt.Sprintf("%.2f%%", c.NoBufferPercentage)),
			pctStyle(c.OverrunsPercentage).Render(fmt.Sprintf("%.2f%%", c.OverrunsPercentage)))
	} else if blk.CounterErr != nil {
		b.WriteString(warningStyle.Render(blk.CounterErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("Low blocks (< %d)", m.config.Threshold)))
	b.WriteString("\n")
	if len(blk.LowBlocks) == 0 {
		b.WriteString(footerStyle.Render(" none"))
		b.WriteString("\n")
	}
	for _, w := range blk.LowBlocks {
		b.WriteString(lowBlockStyle.Render(" " + w.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("RXInterface_data_%d (RX_Percentages)", blk.Ordinal)))
	b.WriteString("\n")
	if blk.SeriesErr != nil {
		b.WriteString(warningStyle.Render(blk.SeriesErr.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(renderBars(m.visibleBars(blk), m.width-listWidth-4))
	}

	return detailStyle.Render(b.String())
}

// renderBars 以水平条形图显示百分比
func renderBars(bars []parser.Bar, width int) string {
	if len(bars) == 0 {
		return footerStyle.Render(" no bars") + "\n"
	}

	labelWidth := 0
	for _, bar := range bars {
		labelWidth = max(labelWidth, len(bar.Label))
	}
	barWidth := width - labelWidth - 12
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	for _, bar := range bars {
		n := int(bar.Value / 100 * float64(barWidth))
		n = min(max(n, 0), barWidth)
		fmt.Fprintf(&b, " %s %s %s\n",
			PadRight(bar.Label, labelWidth),
			barStyle.Render(strings.Repeat("█", n))+strings.Repeat(" ", barWidth-n),
			PadLeft(fmt.Sprintf("%.2f%%", bar.Value), 7))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	var footer string
	if m.filtering {
		footer = " Filter: " + m.filterInput.View()
	} else {
		footer = " [q]uit  [j/k] block  [/]filter  [?]help"
		if m.filterText != "" {
			footer += fmt.Sprintf("  Filter: %s", m.filterText)
		}
	}

	return footerStyle.Render(footer)
}

func (m Model) renderHelp() string {
	help := `
 rxinsight 快捷键帮助

 导航:
   up/k     上一个块
   down/j   下一个块
   Home     第一个块
   End      最后一个块

 操作:
   /        按 RX 标签过滤柱状图
   ?        显示/隐藏帮助

 退出:
   q        退出程序
   Ctrl+C   退出程序

 按任意键返回...
`
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(help)
}

// Run 运行 TUI
func Run(cfg Config, res analyzer.Result) error {
	p := tea.NewProgram(
		New(cfg, res),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
