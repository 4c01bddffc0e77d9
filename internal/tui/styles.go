package tui

import "github.com/charmbracelet/lipgloss"

const listWidth = 24

var (
	// 颜色定义
	primaryColor   = lipgloss.Color("39")  // 青色
	secondaryColor = lipgloss.Color("243") // 灰色
	successColor   = lipgloss.Color("42")  // 绿色
	warningColor   = lipgloss.Color("214") // 橙色
	dangerColor    = lipgloss.Color("196") // 红色

	// 标题样式
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Header 样式
	headerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(secondaryColor)

	// 表格头样式
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor).
				Padding(0, 1)

	// 表格行样式
	tableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// 选中行样式
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("255")).
				Padding(0, 1)

	// 左侧块列表
	listStyle = lipgloss.NewStyle().
			Width(listWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(secondaryColor)

	// 右侧详情
	detailStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	// Footer 样式
	footerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			MarginTop(1)

	barStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	lowBlockStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	okStyle = lipgloss.NewStyle().
		Foreground(successColor)
)

// pctStyle 百分比超过 1% 时高亮
func pctStyle(pct float64) lipgloss.Style {
	if pct >= 1 {
		return warningStyle
	}
	return okStyle
}
