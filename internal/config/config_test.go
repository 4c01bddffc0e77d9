package config

import (
	"strings"
	"testing"

	"github.com/nickproject/rxinsight/internal/parser"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.Parse.LowBlockThreshold != 10 {
		t.Fatalf("LowBlockThreshold = %d, want 10", cfg.Parse.LowBlockThreshold)
	}
	if cfg.Input.SniffBytes != 10000 {
		t.Fatalf("SniffBytes = %d, want 10000", cfg.Input.SniffBytes)
	}
	if cfg.Parse.CounterOffsets != parser.DefaultCounterOffsets() {
		t.Fatalf("CounterOffsets = %+v", cfg.Parse.CounterOffsets)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"empty start marker", func(c *Config) { c.Markers.Start = " " }, "markers.start"},
		{"empty end marker", func(c *Config) { c.Markers.End = "" }, "markers.end"},
		{"same markers", func(c *Config) { c.Markers.End = c.Markers.Start }, "不能相同"},
		{"negative threshold", func(c *Config) { c.Parse.LowBlockThreshold = -1 }, "low_block_threshold"},
		{"negative offset", func(c *Config) { c.Parse.CounterOffsets.Overruns = -2 }, "counter_offsets"},
		{"unknown variant", func(c *Config) { c.Parse.Variant = "both" }, "both"},
		{"zero sniff bytes", func(c *Config) { c.Input.SniffBytes = 0 }, "sniff_bytes"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("Validate() = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestExtractOptions(t *testing.T) {
	cfg := Default()
	cfg.Markers.Start = "begin"
	cfg.Markers.End = "end"
	cfg.Parse.SkipEmptyLines = false
	cfg.Parse.Variant = "header"

	got := cfg.ExtractOptions()
	want := parser.ExtractOptions{
		StartMarker:    "begin",
		EndMarker:      "end",
		SkipEmptyLines: false,
		Variant:        parser.VariantHeaderOnly,
	}
	if got != want {
		t.Fatalf("ExtractOptions() = %+v, want %+v", got, want)
	}
}
