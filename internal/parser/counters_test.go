package parser

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseErrorCounters_FixedLayout(t *testing.T) {
	got, err := ParseErrorCounters([]string{"100 0 0 0 0 3 0 0 0 0 0 0 0 0 0 2"}, DefaultCounterOffsets())
	if err != nil {
		t.Fatalf("ParseErrorCounters returned error: %v", err)
	}
	if got.PacketsInput != 100 || got.NoBuffer != 3 || got.Overruns != 2 {
		t.Fatalf("counters = %+v, want 100/3/2", got)
	}
	if math.Abs(got.NoBufferPercentage-3) > 1e-9 || math.Abs(got.OverrunsPercentage-2) > 1e-9 {
		t.Fatalf("percentages = %v/%v, want 3/2", got.NoBufferPercentage, got.OverrunsPercentage)
	}
}

func TestParseErrorCounters_DeviceLines(t *testing.T) {
	lines := []string{
		"1234 packets input, 5678 bytes, 12 no buffer",
		"3 input errors, 0 CRC, 0 frame, 7 overrun, 0 ignored, 0 abort",
	}
	got, err := ParseErrorCounters(lines, DefaultCounterOffsets())
	if err != nil {
		t.Fatalf("ParseErrorCounters returned error: %v", err)
	}
	if got.PacketsInput != 1234 || got.NoBuffer != 12 || got.Overruns != 7 {
		t.Fatalf("counters = %+v, want 1234/12/7", got)
	}
	if math.Abs(got.NoBufferPercentage-12.0/1234*100) > 1e-9 {
		t.Fatalf("NoBufferPercentage = %v", got.NoBufferPercentage)
	}
}

func TestParseErrorCounters_ZeroInputGuard(t *testing.T) {
	got, err := ParseErrorCounters([]string{"0 0 0 0 0 3 0 0 0 0 0 0 0 0 0 2"}, DefaultCounterOffsets())
	if err != nil {
		t.Fatalf("ParseErrorCounters returned error: %v", err)
	}
	if got.NoBufferPercentage != 0 || got.OverrunsPercentage != 0 {
		t.Fatalf("percentages = %v/%v, want 0/0", got.NoBufferPercentage, got.OverrunsPercentage)
	}
}

func TestParseErrorCounters_Insufficient(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"no lines", nil},
		{"fifteen tokens", []string{strings.Repeat("1 ", 15)}},
		{"split across lines", []string{"1 2 3 4 5", "6 7 8 9 10", "11 12 13 14 15"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseErrorCounters(tt.lines, DefaultCounterOffsets())
			if !errors.Is(err, ErrInsufficientFields) {
				t.Fatalf("err = %v, want ErrInsufficientFields", err)
			}
		})
	}
}

func TestParseErrorCounters_NonNumeric(t *testing.T) {
	_, err := ParseErrorCounters([]string{"100 0 0 0 0 x 0 0 0 0 0 0 0 0 0 2"}, DefaultCounterOffsets())
	if !errors.Is(err, ErrNonNumericField) {
		t.Fatalf("err = %v, want ErrNonNumericField", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %T, want *FieldError", err)
	}
	if fe.Field != "no_buffer" || fe.Index != 5 || fe.Token != "x" {
		t.Fatalf("FieldError = %+v", fe)
	}
}

func TestParseErrorCounters_CustomOffsets(t *testing.T) {
	offsets := CounterOffsets{PacketsInput: 1, NoBuffer: 2, Overruns: 3}
	if offsets.MinTokens() != 4 {
		t.Fatalf("MinTokens() = %d, want 4", offsets.MinTokens())
	}
	got, err := ParseErrorCounters([]string{"x 50 5 10"}, offsets)
	if err != nil {
		t.Fatalf("ParseErrorCounters returned error: %v", err)
	}
	if math.Abs(got.NoBufferPercentage-10) > 1e-9 || math.Abs(got.OverrunsPercentage-20) > 1e-9 {
		t.Fatalf("percentages = %v/%v, want 10/20", got.NoBufferPercentage, got.OverrunsPercentage)
	}
}
