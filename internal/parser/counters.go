package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInsufficientFields = errors.New("字段不足，无法计算 Packets Input / No Buffer / Overruns")
	ErrNonNumericField    = errors.New("字段不是数字，无法计算百分比")
)

// CounterOffsets 错误计数行展平后各计数器的固定位置
//
// 位置来自某一型号设备 "show interface" 的固定输出格式，
// 例如:
//
//	1234 packets input, 5678 bytes, 0 no buffer
//	0 input errors, 0 CRC, 0 frame, 0 overrun, 0 ignored, 0 abort
//
// 其他固件版本的输出不一定适用。
type CounterOffsets struct {
	PacketsInput int `mapstructure:"packets_input" json:"packets_input"`
	NoBuffer     int `mapstructure:"no_buffer" json:"no_buffer"`
	Overruns     int `mapstructure:"overruns" json:"overruns"`
}

// DefaultCounterOffsets 返回默认偏移 (0, 5, 15)
func DefaultCounterOffsets() CounterOffsets {
	return CounterOffsets{PacketsInput: 0, NoBuffer: 5, Overruns: 15}
}

// MinTokens 返回解析所需的最少 token 数
func (o CounterOffsets) MinTokens() int {
	return max(o.PacketsInput, o.NoBuffer, o.Overruns) + 1
}

// ErrorCounters 单个块的错误计数及百分比
type ErrorCounters struct {
	PacketsInput       int64   `json:"packets_input"`
	NoBuffer           int64   `json:"no_buffer"`
	Overruns           int64   `json:"overruns"`
	NoBufferPercentage float64 `json:"no_buffer_percentage"`
	OverrunsPercentage float64 `json:"overruns_percentage"`
}

// FieldError 某个位置的 token 无法解析为整数
type FieldError struct {
	Field string
	Index int
	Token string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s (token[%d]=%q) 不是整数", e.Field, e.Index, e.Token)
}

// Is 使 errors.Is(err, ErrNonNumericField) 成立
func (e *FieldError) Is(target error) bool {
	return target == ErrNonNumericField
}

// Flatten 按空白切分所有行并按顺序拼接
func Flatten(lines []string) []string {
	var tokens []string
	for _, line := range lines {
		tokens = append(tokens, strings.Fields(line)...)
	}
	return tokens
}

// ParseErrorCounters 从错误行中按固定位置取出计数并计算百分比
func ParseErrorCounters(lines []string, offsets CounterOffsets) (ErrorCounters, error) {
	tokens := Flatten(lines)
	if len(tokens) < offsets.MinTokens() {
		return ErrorCounters{}, fmt.Errorf("%w: 共 %d 个，至少需要 %d 个", ErrInsufficientFields, len(tokens), offsets.MinTokens())
	}

	var c ErrorCounters
	fields := []struct {
		name  string
		index int
		dst   *int64
	}{
		{"packets_input", offsets.PacketsInput, &c.PacketsInput},
		{"no_buffer", offsets.NoBuffer, &c.NoBuffer},
		{"overruns", offsets.Overruns, &c.Overruns},
	}

	for _, f := range fields {
		v, err := strconv.ParseInt(tokens[f.index], 10, 64)
		if err != nil {
			return ErrorCounters{}, &FieldError{Field: f.name, Index: f.index, Token: tokens[f.index]}
		}
		*f.dst = v
	}

	c.NoBufferPercentage = percentage(c.NoBuffer, c.PacketsInput)
	c.OverrunsPercentage = percentage(c.Overruns, c.PacketsInput)
	return c, nil
}

// percentage 分母为 0 时返回 0
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
