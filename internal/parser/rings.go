package parser

import (
	"strconv"
	"strings"
)

// DefaultLowBlockThreshold 默认低块阈值
const DefaultLowBlockThreshold = 10

const ringWindowSize = 5

// RingWindow 一个接收环描述符的 5 个 token
//
// 典型输入 "RX[00]: ..." 与 "Blocks free curr/low: 511/211"
// 展开后为 [RX[00]: curr low: 511 211]。
type RingWindow [ringWindowSize]string

// Label 返回窗口的第一个 token
func (w RingWindow) Label() string {
	return w[0]
}

func (w RingWindow) String() string {
	return strings.Join(w[:], " ")
}

// RingTokens 展平 RX 行，保留含 "RX" 或 "/" 的 token 并按 "/" 再次切分
func RingTokens(lines []string) []string {
	var parts []string
	for _, tok := range Flatten(lines) {
		if !strings.Contains(tok, receiveTag) && !strings.Contains(tok, "/") {
			continue
		}
		parts = append(parts, strings.Split(tok, "/")...)
	}
	return parts
}

// ScanLowBlocks 以 5 个 token 为一组不重叠地扫描，
// 第 4 或第 5 个 token 为数字且小于阈值时标记为低块
func ScanLowBlocks(lines []string, threshold int) []RingWindow {
	parts := RingTokens(lines)

	var flagged []RingWindow
	for j := 0; j+ringWindowSize <= len(parts); j += ringWindowSize {
		var w RingWindow
		copy(w[:], parts[j:j+ringWindowSize])
		if belowThreshold(w[3], threshold) || belowThreshold(w[4], threshold) {
			flagged = append(flagged, w)
		}
	}
	return flagged
}

func belowThreshold(tok string, threshold int) bool {
	if !isDigits(tok) {
		return false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		// 溢出的数字必然不小于阈值
		return false
	}
	return n < threshold
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
