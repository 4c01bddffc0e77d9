package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nickproject/rxinsight/internal/analyzer"
	"github.com/nickproject/rxinsight/internal/logger"
	"github.com/nickproject/rxinsight/internal/parser"
)

const (
	msgInsufficient = "Not enough elements for Packet Input, No Buffer, and Overruns."
	msgNonNumeric   = "Non-numeric values encountered; unable to calculate percentages."
)

// Reporter 文本报告输出
type Reporter struct {
	Out    io.Writer
	Charts []ChartRenderer
}

// Write 按块顺序输出计数、低块列表和图表
//
// 单个图表渲染失败只记录日志，不影响其他块；只有写 Out 失败才返回错误。
func (r Reporter) Write(res analyzer.Result) error {
	var b strings.Builder
	if len(res.Blocks) == 0 {
		b.WriteString("No interface blocks with RX data found.\n")
		_, err := io.WriteString(r.Out, b.String())
		return err
	}

	for i := range res.Blocks {
		br := &res.Blocks[i]
		b.Reset()
		writeCounters(&b, br)
		b.WriteString("\n")
		writeLowBlocks(&b, br, res.Threshold)
		b.WriteString("\n")
		if _, err := io.WriteString(r.Out, b.String()); err != nil {
			return err
		}

		if err := r.writeChart(br); err != nil {
			return err
		}
	}
	return nil
}

func writeCounters(b *strings.Builder, br *analyzer.BlockReport) {
	fmt.Fprintf(b, "Interface Block %d:\n", br.Ordinal)
	switch {
	case br.Counters != nil:
		c := br.Counters
		fmt.Fprintf(b, "Packets_Input: %d\n", c.PacketsInput)
		fmt.Fprintf(b, "No Buffer: %d\n", c.NoBuffer)
		fmt.Fprintf(b, "Overruns: %d\n", c.Overruns)
		fmt.Fprintf(b, "No Buffer Percentage: %.2f%%\n", c.NoBufferPercentage)
		fmt.Fprintf(b, "Overruns Percentage: %.2f%%\n", c.OverrunsPercentage)
	case errors.Is(br.CounterErr, parser.ErrNonNumericField):
		b.WriteString(msgNonNumeric + "\n")
	default:
		b.WriteString(msgInsufficient + "\n")
	}
}

func writeLowBlocks(b *strings.Builder, br *analyzer.BlockReport, threshold int) {
	fmt.Fprintf(b, "Potential RX rings with Current or Previous Low Blocks for Interface Block Number %d, low Blocks threshold is %d:\n",
		br.Ordinal, threshold)
	for _, w := range br.LowBlocks {
		b.WriteString(w.String())
		b.WriteString("\n")
	}
}

func (r Reporter) writeChart(br *analyzer.BlockReport) error {
	if br.SeriesErr != nil {
		_, err := fmt.Fprintf(r.Out, "RX chart skipped for Interface Block %d: %v\n\n", br.Ordinal, br.SeriesErr)
		return err
	}
	if len(br.Bars) == 0 {
		_, err := fmt.Fprintf(r.Out, "RX chart skipped for Interface Block %d: no RX packet counts\n\n", br.Ordinal)
		return err
	}

	c := NewChart(br.Ordinal, br.Bars)
	for _, cr := range r.Charts {
		if err := cr.Render(c); err != nil {
			logger.Error("图表渲染失败", "block", br.Ordinal, "error", err)
			continue
		}
		if p, ok := cr.(PNGChart); ok {
			logger.Info("图表已保存", "block", br.Ordinal, "file", p.Path(br.Ordinal))
		}
	}
	_, err := io.WriteString(r.Out, "\n")
	return err
}
