package analyzer

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/nickproject/rxinsight/internal/filter"
	"github.com/nickproject/rxinsight/internal/logger"
	"github.com/nickproject/rxinsight/internal/parser"
)

// Options 分析选项
type Options struct {
	Offsets   parser.CounterOffsets
	Threshold int
	Filter    *filter.Filter
}

// DefaultOptions 返回默认分析选项
func DefaultOptions() Options {
	return Options{
		Offsets:   parser.DefaultCounterOffsets(),
		Threshold: parser.DefaultLowBlockThreshold,
	}
}

// BlockReport 单个块的分析结果
type BlockReport struct {
	Ordinal    int                   `json:"block"`
	Lines      int                   `json:"lines"`
	Counters   *parser.ErrorCounters `json:"counters,omitempty"`
	CounterErr error                 `json:"-"`
	LowBlocks  []parser.RingWindow   `json:"low_blocks"`
	Series     parser.PacketSeries   `json:"series"`
	Bars       []parser.Bar          `json:"bars"`
	SeriesErr  error                 `json:"-"`
}

// Failed 块是否存在解析失败
func (b *BlockReport) Failed() bool {
	return b.CounterErr != nil || b.SeriesErr != nil
}

// Result 一次运行的全部结果
type Result struct {
	Source    string        `json:"source"`
	Encoding  string        `json:"encoding"`
	Threshold int           `json:"low_block_threshold"`
	Blocks    []BlockReport `json:"blocks"`
	Err       error         `json:"-"` // 各块失败的汇总
}

// Failed 返回存在失败的块数
func (r *Result) Failed() int {
	n := 0
	for i := range r.Blocks {
		if r.Blocks[i].Failed() {
			n++
		}
	}
	return n
}

// Analyze 依次解析每个保留的块
//
// 单个块的失败只记录在该块的结果中，不会中断后续块。
func Analyze(blocks parser.Blocks, opts Options) Result {
	res := Result{
		Threshold: opts.Threshold,
		Blocks:    make([]BlockReport, 0, blocks.Len()),
	}

	for i := 0; i < blocks.Len(); i++ {
		br := analyzeBlock(i+1, blocks.At(i), opts)
		if br.CounterErr != nil {
			res.Err = multierr.Append(res.Err, &BlockError{Ordinal: br.Ordinal, Err: br.CounterErr})
		}
		if br.SeriesErr != nil {
			res.Err = multierr.Append(res.Err, &BlockError{Ordinal: br.Ordinal, Err: br.SeriesErr})
		}
		res.Blocks = append(res.Blocks, br)
	}

	return res
}

func analyzeBlock(ordinal int, c parser.Capture, opts Options) BlockReport {
	br := BlockReport{
		Ordinal: ordinal,
		Lines:   len(c.Block),
	}

	counters, err := parser.ParseErrorCounters(c.Errors, opts.Offsets)
	if err != nil {
		br.CounterErr = err
		logger.Warn("错误计数解析失败", "block", ordinal, "error", err)
	} else {
		br.Counters = &counters
	}

	for _, w := range parser.ScanLowBlocks(c.Receive, opts.Threshold) {
		if opts.Filter.Match(w.Label()) {
			br.LowBlocks = append(br.LowBlocks, w)
		}
	}

	series, err := parser.ComputePacketPercentages(c.Interface)
	br.Series = series
	for _, tok := range series.Skipped {
		logger.Warn("跳过非数字的包计数", "block", ordinal, "token", tok)
	}
	if err != nil {
		br.SeriesErr = err
		logger.Warn("RX 数据形状不一致，不绘制图表", "block", ordinal, "error", err)
		return br
	}

	for _, bar := range series.Pairs() {
		if opts.Filter.Match(bar.Label) {
			br.Bars = append(br.Bars, bar)
		}
	}
	logger.Debug("块分析完成", "block", ordinal, "bars", len(br.Bars), "low_blocks", len(br.LowBlocks))
	return br
}

// BlockError 带块序号的失败
type BlockError struct {
	Ordinal int
	Err     error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("块 %d: %v", e.Ordinal, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}
