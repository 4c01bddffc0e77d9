package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/nickproject/rxinsight/internal/parser"
)

// Chart 单个块的柱状图数据
type Chart struct {
	Ordinal int
	Title   string
	XLabel  string
	YLabel  string
	Bars    []parser.Bar
}

// NewChart 按块序号生成标题和坐标轴名称
func NewChart(ordinal int, bars []parser.Bar) Chart {
	return Chart{
		Ordinal: ordinal,
		Title:   fmt.Sprintf("RX Data Analysis for Interface_Block%d", ordinal),
		XLabel:  fmt.Sprintf("RXInterface_data_%d", ordinal),
		YLabel:  "RX_Percentages",
		Bars:    bars,
	}
}

// ChartRenderer 图表渲染器
type ChartRenderer interface {
	Render(c Chart) error
}

// TextChart 在终端中以水平条形图输出
type TextChart struct {
	Out   io.Writer
	Width int // 100% 对应的字符数
}

// Render 输出文本柱状图
func (t TextChart) Render(c Chart) error {
	width := t.Width
	if width <= 0 {
		width = 50
	}

	labelWidth := len(c.XLabel)
	for _, bar := range c.Bars {
		labelWidth = max(labelWidth, len(bar.Label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", c.Title)
	fmt.Fprintf(&b, "%-*s | %s\n", labelWidth, c.XLabel, c.YLabel)
	for _, bar := range c.Bars {
		n := int(math.Round(bar.Value / 100 * float64(width)))
		n = min(max(n, 0), width)
		fmt.Fprintf(&b, "%-*s | %s %.2f%%\n", labelWidth, bar.Label, strings.Repeat("#", n), bar.Value)
	}

	_, err := io.WriteString(t.Out, b.String())
	return err
}

// PNGChart 使用 go-chart 生成 PNG 文件
type PNGChart struct {
	Dir    string
	Width  int
	Height int
}

// Path 返回指定块的输出文件路径
func (p PNGChart) Path(ordinal int) string {
	return filepath.Join(p.Dir, fmt.Sprintf("interface_block_%d.png", ordinal))
}

// Render 写入 PNG 文件
func (p PNGChart) Render(c Chart) error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("创建图表目录失败: %w", err)
	}

	f, err := os.Create(p.Path(c.Ordinal))
	if err != nil {
		return fmt.Errorf("创建图表文件失败: %w", err)
	}
	defer f.Close()

	if err := p.barChart(c).Render(chart.PNG, f); err != nil {
		return fmt.Errorf("渲染图表失败: %w", err)
	}
	return f.Close()
}

func (p PNGChart) barChart(c Chart) chart.BarChart {
	width, height := p.Width, p.Height
	if width <= 0 {
		width = 1000
	}
	if height <= 0 {
		height = 600
	}

	bars := make([]chart.Value, 0, len(c.Bars))
	for _, bar := range c.Bars {
		bars = append(bars, chart.Value{
			Label: bar.Label,
			Value: bar.Value,
			Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue},
		})
	}

	barWidth := (width - 120) / max(len(bars)*2, 1)
	barWidth = min(max(barWidth, 8), 80)

	return chart.BarChart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 64}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars:     bars,
		Elements: []chart.Renderable{axisCaption(c.XLabel, height)},
	}
}

// axisCaption 在图表底部居中绘制 X 轴名称
func axisCaption(text string, height int) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		style := chart.Style{FontSize: 10, FontColor: chart.ColorBlack}.InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)
		tb := r.MeasureText(text)
		x := box.Left + (box.Width()-tb.Width())/2
		r.Text(text, x, height-8)
	}
}
