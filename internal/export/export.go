package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/nickproject/rxinsight/internal/analyzer"
	"github.com/nickproject/rxinsight/internal/parser"
)

// ExportFormat 导出格式
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// Report 导出报告
type Report struct {
	Timestamp time.Time     `json:"timestamp"`
	Source    string        `json:"source"`
	Encoding  string        `json:"encoding"`
	Threshold int           `json:"low_block_threshold"`
	Blocks    []BlockRecord `json:"blocks"`
}

// BlockRecord 单个块的导出记录，错误以文本形式保存
type BlockRecord struct {
	analyzer.BlockReport
	CounterError string `json:"counter_error,omitempty"`
	SeriesError  string `json:"series_error,omitempty"`
}

// NewReport 从分析结果生成导出报告
func NewReport(res analyzer.Result) *Report {
	r := &Report{
		Timestamp: time.Now(),
		Source:    res.Source,
		Encoding:  res.Encoding,
		Threshold: res.Threshold,
		Blocks:    make([]BlockRecord, 0, len(res.Blocks)),
	}
	for _, b := range res.Blocks {
		rec := BlockRecord{BlockReport: b}
		if b.CounterErr != nil {
			rec.CounterError = b.CounterErr.Error()
		}
		if b.SeriesErr != nil {
			rec.SeriesError = b.SeriesErr.Error()
		}
		r.Blocks = append(r.Blocks, rec)
	}
	return r
}

// Export 导出数据到文件
func Export(report *Report, filename string, format ExportFormat) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer file.Close()

	if err := Write(report, file, format); err != nil {
		return err
	}
	return file.Close()
}

// Write 按格式写出报告
func Write(report *Report, w io.Writer, format ExportFormat) error {
	switch format {
	case FormatJSON:
		return exportJSON(report, w)
	case FormatCSV:
		return exportCSV(report, w)
	default:
		return fmt.Errorf("不支持的格式: %s", format)
	}
}

func exportJSON(report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// exportCSV 每根柱一行；没有柱的块输出一行只含计数的记录
func exportCSV(report *Report, w io.Writer) error {
	writer := csv.NewWriter(w)

	headers := []string{
		"block",
		"packets_input",
		"no_buffer",
		"overruns",
		"no_buffer_pct",
		"overruns_pct",
		"low_blocks",
		"rx_label",
		"rx_pct",
		"error",
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, b := range report.Blocks {
		base := []string{strconv.Itoa(b.Ordinal), "", "", "", "", "", strconv.Itoa(len(b.LowBlocks))}
		if c := b.Counters; c != nil {
			base[1] = strconv.FormatInt(c.PacketsInput, 10)
			base[2] = strconv.FormatInt(c.NoBuffer, 10)
			base[3] = strconv.FormatInt(c.Overruns, 10)
			base[4] = formatPct(c.NoBufferPercentage)
			base[5] = formatPct(c.OverrunsPercentage)
		}
		errText := joinErrors(b.CounterError, b.SeriesError)

		bars := b.Bars
		if len(bars) == 0 {
			bars = []parser.Bar{{}}
		}
		for _, bar := range bars {
			row := append(append([]string{}, base...), bar.Label, "", errText)
			if bar.Label != "" {
				row[8] = formatPct(bar.Value)
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func joinErrors(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "; " + b
	}
}

// ParseFormat 解析格式字符串
func ParseFormat(s string) (ExportFormat, error) {
	switch s {
	case "json", "JSON":
		return FormatJSON, nil
	case "csv", "CSV":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("不支持的格式: %s (支持: json, csv)", s)
	}
}
