package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/nickproject/rxinsight/internal/parser"
)

// Config 应用配置
type Config struct {
	Markers MarkerConfig `mapstructure:"markers"`
	Parse   ParseConfig  `mapstructure:"parse"`
	Input   InputConfig  `mapstructure:"input"`
	Filter  FilterConfig `mapstructure:"filter"`
	Chart   ChartConfig  `mapstructure:"chart"`
	Logging LogConfig    `mapstructure:"logging"`
	Output  OutputConfig `mapstructure:"output"`
}

// MarkerConfig 块起止标记
type MarkerConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// ParseConfig 解析配置
type ParseConfig struct {
	LowBlockThreshold int                   `mapstructure:"low_block_threshold"`
	CounterOffsets    parser.CounterOffsets `mapstructure:"counter_offsets"`
	SkipEmptyLines    bool                  `mapstructure:"skip_empty_lines"`
	Variant           string                `mapstructure:"variant"` // paired | header
}

// InputConfig 输入配置
type InputConfig struct {
	SniffBytes int    `mapstructure:"sniff_bytes"`
	Encoding   string `mapstructure:"encoding"` // 为空时自动检测
}

// FilterConfig RX 环标签过滤
type FilterConfig struct {
	IncludeRings []string `mapstructure:"include_rings"`
	ExcludeRings []string `mapstructure:"exclude_rings"`
}

// ChartConfig 图表配置
type ChartConfig struct {
	Dir    string `mapstructure:"dir"` // 为空时不生成 PNG
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level     string `mapstructure:"level"`
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
	TUI    bool   `mapstructure:"tui"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Markers: MarkerConfig{
			Start: parser.DefaultStartMarker,
			End:   parser.DefaultEndMarker,
		},
		Parse: ParseConfig{
			LowBlockThreshold: parser.DefaultLowBlockThreshold,
			CounterOffsets:    parser.DefaultCounterOffsets(),
			SkipEmptyLines:    true,
			Variant:           parser.VariantPaired.String(),
		},
		Input: InputConfig{
			SniffBytes: 10000,
			Encoding:   "",
		},
		Chart: ChartConfig{
			Dir:    "",
			Width:  1000,
			Height: 600,
		},
		Logging: LogConfig{
			Level:     "warn",
			File:      "", // 空表示只输出到 stderr
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		Output: OutputConfig{
			File:   "",
			Format: "json",
			TUI:    false,
		},
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Markers.Start) == "" {
		errs = append(errs, errors.New("markers.start 不能为空"))
	}
	if strings.TrimSpace(c.Markers.End) == "" {
		errs = append(errs, errors.New("markers.end 不能为空"))
	}
	if c.Markers.Start != "" && c.Markers.Start == c.Markers.End {
		errs = append(errs, errors.New("markers.start 与 markers.end 不能相同"))
	}
	if c.Parse.LowBlockThreshold < 0 {
		errs = append(errs, fmt.Errorf("parse.low_block_threshold 不能为负数: %d", c.Parse.LowBlockThreshold))
	}
	o := c.Parse.CounterOffsets
	if o.PacketsInput < 0 || o.NoBuffer < 0 || o.Overruns < 0 {
		errs = append(errs, fmt.Errorf("parse.counter_offsets 不能为负数: %+v", o))
	}
	if _, err := parser.ParseVariant(c.Parse.Variant); err != nil {
		errs = append(errs, err)
	}
	if c.Input.SniffBytes <= 0 {
		errs = append(errs, fmt.Errorf("input.sniff_bytes 必须大于 0: %d", c.Input.SniffBytes))
	}
	switch strings.ToLower(c.Output.Format) {
	case "json", "csv":
	default:
		errs = append(errs, fmt.Errorf("不支持的导出格式: %s (支持: json, csv)", c.Output.Format))
	}

	if err := multierr.Combine(errs...); err != nil {
		return fmt.Errorf("配置无效: %w", err)
	}
	return nil
}

// ExtractOptions 转换为块提取选项
func (c *Config) ExtractOptions() parser.ExtractOptions {
	variant, _ := parser.ParseVariant(c.Parse.Variant)
	return parser.ExtractOptions{
		StartMarker:    c.Markers.Start,
		EndMarker:      c.Markers.End,
		SkipEmptyLines: c.Parse.SkipEmptyLines,
		Variant:        variant,
	}
}
