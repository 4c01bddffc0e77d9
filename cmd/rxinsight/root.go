package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nickproject/rxinsight/internal/analyzer"
	"github.com/nickproject/rxinsight/internal/config"
	"github.com/nickproject/rxinsight/internal/export"
	"github.com/nickproject/rxinsight/internal/filter"
	"github.com/nickproject/rxinsight/internal/logger"
	"github.com/nickproject/rxinsight/internal/parser"
	"github.com/nickproject/rxinsight/internal/report"
	"github.com/nickproject/rxinsight/internal/source"
	"github.com/nickproject/rxinsight/internal/tui"
)

const promptText = "Please enter the path to the file: "

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rxinsight [file]",
	Short: "分析接口诊断输出中的 RX 环与错误计数",
	Long: `rxinsight 读取 "show interface" 等诊断输出的文本抓取，
提取起止标记之间的接口块，计算 No Buffer / Overruns 占比，
列出空闲块低于阈值的 RX 环，并按 RX 环绘制包数占比柱状图。

未指定文件时会提示输入文件路径。`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMain,
}

func init() {
	cobra.OnInitialize(initConfig)
	def := config.Default()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	// 解析选项
	rootCmd.Flags().String("start-marker", def.Markers.Start, "块起始标记")
	rootCmd.Flags().String("end-marker", def.Markers.End, "块结束标记")
	rootCmd.Flags().IntP("threshold", "t", def.Parse.LowBlockThreshold, "低块阈值")
	rootCmd.Flags().String("variant", def.Parse.Variant, "RX 数据收录方式 (paired|header)")
	rootCmd.Flags().Bool("skip-empty-lines", def.Parse.SkipEmptyLines, "块内忽略空行")
	rootCmd.Flags().String("encoding", def.Input.Encoding, "指定文件编码 (默认自动检测)")
	rootCmd.Flags().Int("sniff-bytes", def.Input.SniffBytes, "编码检测读取的字节数")

	// 过滤选项
	rootCmd.Flags().StringSlice("include-rings", nil, "RX 环标签白名单 (支持 * ? 通配符)")
	rootCmd.Flags().StringSlice("exclude-rings", nil, "RX 环标签黑名单")

	// 输出选项
	rootCmd.Flags().String("chart-dir", def.Chart.Dir, "PNG 图表输出目录 (为空时不生成)")
	rootCmd.Flags().StringP("output", "o", def.Output.File, "导出文件路径")
	rootCmd.Flags().String("format", def.Output.Format, "导出格式 (json|csv)")
	rootCmd.Flags().Bool("tui", def.Output.TUI, "以交互界面浏览结果")

	// 日志选项
	rootCmd.Flags().String("log-file", def.Logging.File, "日志文件路径")
	rootCmd.Flags().String("log-level", def.Logging.Level, "日志级别 (debug|info|warn|error)")

	// 绑定到 viper
	viper.BindPFlag("markers.start", rootCmd.Flags().Lookup("start-marker"))
	viper.BindPFlag("markers.end", rootCmd.Flags().Lookup("end-marker"))
	viper.BindPFlag("parse.low_block_threshold", rootCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("parse.variant", rootCmd.Flags().Lookup("variant"))
	viper.BindPFlag("parse.skip_empty_lines", rootCmd.Flags().Lookup("skip-empty-lines"))
	viper.BindPFlag("input.encoding", rootCmd.Flags().Lookup("encoding"))
	viper.BindPFlag("input.sniff_bytes", rootCmd.Flags().Lookup("sniff-bytes"))
	viper.BindPFlag("filter.include_rings", rootCmd.Flags().Lookup("include-rings"))
	viper.BindPFlag("filter.exclude_rings", rootCmd.Flags().Lookup("exclude-rings"))
	viper.BindPFlag("chart.dir", rootCmd.Flags().Lookup("chart-dir"))
	viper.BindPFlag("output.file", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("output.format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("output.tui", rootCmd.Flags().Lookup("tui"))
	viper.BindPFlag("logging.file", rootCmd.Flags().Lookup("log-file"))
	viper.BindPFlag("logging.level", rootCmd.Flags().Lookup("log-level"))
}

func initConfig() {
	cfg = config.Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.config/rxinsight")
		}
		viper.AddConfigPath("/etc/rxinsight")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("RXINSIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "读取配置文件错误: %v\n", err)
			os.Exit(1)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "解析配置错误: %v\n", err)
		os.Exit(1)
	}
}

// runMain 主入口
func runMain(cmd *cobra.Command, args []string) error {
	logCfg := logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	}
	if err := logger.Init(logCfg); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		p, err := promptPath(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		path = p
	}

	return analyzeFile(cfg, path, cmd.OutOrStdout())
}

// promptPath 交互式读取文件路径
func promptPath(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, promptText)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("读取文件路径失败: %w", err)
	}
	path := strings.TrimSpace(line)
	if path == "" {
		return "", errors.New("未输入文件路径")
	}
	return path, nil
}

// analyzeFile 单个文件的完整处理流程
func analyzeFile(cfg *config.Config, path string, out io.Writer) error {
	doc, err := source.Load(path, source.Options{
		SniffBytes: cfg.Input.SniffBytes,
		Encoding:   cfg.Input.Encoding,
	})
	if err != nil {
		logger.Error("读取文件失败", "file", path, "error", err)
		if errors.Is(err, source.ErrFileNotFound) {
			return fmt.Errorf("无法打开文件: %w", err)
		}
		return fmt.Errorf("读取文件时发生 I/O 错误: %w", err)
	}
	logger.Info("文件已读取", "file", path, "encoding", doc.Encoding, "confidence", doc.Confidence, "lines", len(doc.Lines))

	blocks := parser.ExtractBlocks(doc.Lines, cfg.ExtractOptions())
	logger.Info("接口块提取完成", "blocks", blocks.Len())

	res := analyzer.Analyze(blocks, analyzer.Options{
		Offsets:   cfg.Parse.CounterOffsets,
		Threshold: cfg.Parse.LowBlockThreshold,
		Filter:    filter.New(cfg.Filter.IncludeRings, cfg.Filter.ExcludeRings),
	})
	res.Source = doc.Path
	res.Encoding = doc.Encoding
	if res.Err != nil {
		logger.Warn("部分块解析失败", "failed", res.Failed(), "blocks", len(res.Blocks))
	}

	if cfg.Output.TUI {
		tuiCfg := tui.Config{
			Source:    res.Source,
			Encoding:  res.Encoding,
			Threshold: res.Threshold,
		}
		if err := tui.Run(tuiCfg, res); err != nil {
			return fmt.Errorf("TUI 错误: %w", err)
		}
	} else {
		reporter := report.Reporter{
			Out:    out,
			Charts: []report.ChartRenderer{report.TextChart{Out: out}},
		}
		if cfg.Chart.Dir != "" {
			reporter.Charts = append(reporter.Charts, report.PNGChart{
				Dir:    cfg.Chart.Dir,
				Width:  cfg.Chart.Width,
				Height: cfg.Chart.Height,
			})
		}
		if err := reporter.Write(res); err != nil {
			return fmt.Errorf("输出报告失败: %w", err)
		}
	}

	if cfg.Output.File != "" {
		format, err := export.ParseFormat(cfg.Output.Format)
		if err != nil {
			return err
		}
		if err := export.Export(export.NewReport(res), cfg.Output.File, format); err != nil {
			return fmt.Errorf("导出失败: %w", err)
		}
		logger.Info("数据已导出", "file", cfg.Output.File)
	}

	return nil
}

func Execute() error {
	return rootCmd.Execute()
}
