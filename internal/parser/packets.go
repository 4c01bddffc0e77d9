package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSeriesMismatch = errors.New("RX 标签与百分比数量不一致")

const (
	packetsSuffixToken = "packets,"
	packetsPrefixToken = "Packets:"
)

// Bar 图表中的一根柱
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PacketSeries 各 RX 环的包数及占比
type PacketSeries struct {
	Labels      []string  `json:"labels"`
	Counts      []int64   `json:"counts"`
	Percentages []float64 `json:"percentages"`
	Total       int64     `json:"total"`
	Skipped     []string  `json:"skipped,omitempty"` // 非数字的计数 token
}

// Pairs 按提取顺序配对标签与百分比
func (s PacketSeries) Pairs() []Bar {
	n := min(len(s.Labels), len(s.Percentages))
	bars := make([]Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, Bar{Label: s.Labels[i], Value: s.Percentages[i]})
	}
	return bars
}

// ComputePacketPercentages 提取每个 RX 环的包数并计算占比
//
// 识别两种格式:
//
//	RX[00]: 1234 packets, 5678 bytes   (数字在 "packets," 之前)
//	RX[00]: Packets: 1234              (数字在 "Packets:" 之后)
//
// 标签与百分比数量不一致时，返回结果的同时返回 ErrSeriesMismatch。
func ComputePacketPercentages(lines []string) (PacketSeries, error) {
	var (
		s   PacketSeries
		raw []string
	)

	for _, line := range lines {
		tokens := strings.Fields(line)
		for idx, tok := range tokens {
			if tok == packetsSuffixToken && idx > 0 {
				raw = append(raw, tokens[idx-1])
			} else if tok == packetsPrefixToken && idx < len(tokens)-1 {
				raw = append(raw, tokens[idx+1])
			}
			if strings.Contains(tok, receiveTag) {
				s.Labels = append(s.Labels, tok)
			}
		}
	}

	for _, tok := range raw {
		if !isDigits(tok) {
			s.Skipped = append(s.Skipped, tok)
			continue
		}
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			s.Skipped = append(s.Skipped, tok)
			continue
		}
		s.Counts = append(s.Counts, n)
		s.Total += n
	}

	s.Percentages = make([]float64, len(s.Counts))
	for i, n := range s.Counts {
		s.Percentages[i] = percentage(n, s.Total)
	}

	if len(s.Labels) != len(s.Percentages) {
		return s, fmt.Errorf("%w: %d 个标签, %d 个百分比", ErrSeriesMismatch, len(s.Labels), len(s.Percentages))
	}
	return s, nil
}
