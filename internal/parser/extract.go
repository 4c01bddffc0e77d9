package parser

import "strings"

const (
	// DefaultStartMarker 默认块起始标记
	DefaultStartMarker = "Interface Internal-Data0"
	// DefaultEndMarker 默认块结束标记
	DefaultEndMarker = "Control Point Interface States:"

	receiveTag      = "RX"
	zeroCounterTail = ": 0 packets, 0 bytes"
)

var errorTags = []string{"no buffer", "input errors"}

// Variant 决定 Interface 序列是否收录续行
type Variant int

const (
	// VariantPaired 收录 RX 行及其下一行
	VariantPaired Variant = iota
	// VariantHeaderOnly 只收录 RX 行本身
	VariantHeaderOnly
)

func (v Variant) String() string {
	switch v {
	case VariantPaired:
		return "paired"
	case VariantHeaderOnly:
		return "header"
	default:
		return "unknown"
	}
}

// ParseVariant 解析变体名称
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paired":
		return VariantPaired, nil
	case "header", "header-only":
		return VariantHeaderOnly, nil
	default:
		return VariantPaired, &UnknownVariantError{Name: s}
	}
}

// UnknownVariantError 未知变体
type UnknownVariantError struct {
	Name string
}

func (e *UnknownVariantError) Error() string {
	return "未知的解析变体: " + e.Name + " (支持: paired, header)"
}

// ExtractOptions 块提取选项
type ExtractOptions struct {
	StartMarker    string
	EndMarker      string
	SkipEmptyLines bool
	Variant        Variant
}

// DefaultExtractOptions 返回默认提取选项
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		StartMarker:    DefaultStartMarker,
		EndMarker:      DefaultEndMarker,
		SkipEmptyLines: true,
		Variant:        VariantPaired,
	}
}

// Block 两个标记之间的已裁剪行
type Block []string

// Key 返回按内容比较用的键
func (b Block) Key() string {
	return strings.Join(b, "\n")
}

// Capture 单个块的四个并行序列
type Capture struct {
	Block     Block
	Errors    []string
	Receive   []string
	Interface []string
}

// Blocks 提取结果，四个切片长度始终相等
type Blocks struct {
	Blocks    []Block
	Errors    [][]string
	Receive   [][]string
	Interface [][]string
}

// Len 返回保留的块数
func (b Blocks) Len() int {
	return len(b.Blocks)
}

// At 返回第 i 个块的全部数据
func (b Blocks) At(i int) Capture {
	return Capture{
		Block:     b.Blocks[i],
		Errors:    b.Errors[i],
		Receive:   b.Receive[i],
		Interface: b.Interface[i],
	}
}

func (b *Blocks) add(c Capture) {
	b.Blocks = append(b.Blocks, c.Block)
	b.Errors = append(b.Errors, c.Errors)
	b.Receive = append(b.Receive, c.Receive)
	b.Interface = append(b.Interface, c.Interface)
}

// IsQualifyingReceiveLine 判断是否为非全零的 RX 计数行
func IsQualifyingReceiveLine(line string) bool {
	return strings.Contains(line, receiveTag) && !strings.Contains(line, zeroCounterTail)
}

// IsErrorLine 判断是否为错误计数行
func IsErrorLine(line string) bool {
	for _, tag := range errorTags {
		if strings.Contains(line, tag) {
			return true
		}
	}
	return false
}

// ExtractBlocks 单遍扫描，提取起止标记之间的块
//
// 未闭合的块会在下一个起始标记处被丢弃；内容完全相同的块只保留第一个；
// 不含合格 RX 行的块不保留。
func ExtractBlocks(lines []string, opts ExtractOptions) Blocks {
	var (
		out    Blocks
		cur    Capture
		inside bool
		seen   = make(map[string]struct{})
	)

	isMarker := func(line string) bool {
		return strings.Contains(line, opts.StartMarker) || strings.Contains(line, opts.EndMarker)
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if strings.Contains(line, opts.StartMarker) {
			inside = true
			cur = Capture{}
			continue
		}

		if strings.Contains(line, opts.EndMarker) {
			inside = false
			if len(cur.Receive) > 0 {
				key := cur.Block.Key()
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					out.add(cur)
				}
			}
			cur = Capture{}
			continue
		}

		if !inside {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" && opts.SkipEmptyLines {
			continue
		}
		cur.Block = append(cur.Block, trimmed)

		if IsQualifyingReceiveLine(trimmed) {
			cur.Receive = append(cur.Receive, trimmed)
			cur.Interface = append(cur.Interface, trimmed)

			// 续行属于同一条记录，直接前移下标
			if i+1 < len(lines) && !isMarker(lines[i+1]) {
				i++
				next := strings.TrimSpace(lines[i])
				cur.Receive = append(cur.Receive, next)
				if opts.Variant == VariantPaired {
					cur.Interface = append(cur.Interface, next)
				}
			}
		}

		if IsErrorLine(trimmed) {
			cur.Errors = append(cur.Errors, trimmed)
		}
	}

	return out
}
