package report

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/nickproject/rxinsight/internal/analyzer"
	"github.com/nickproject/rxinsight/internal/parser"
)

func sampleResult() analyzer.Result {
	return analyzer.Result{
		Threshold: 10,
		Blocks: []analyzer.BlockReport{
			{
				Ordinal: 1,
				Counters: &parser.ErrorCounters{
					PacketsInput:       100,
					NoBuffer:           3,
					Overruns:           2,
					NoBufferPercentage: 3,
					OverrunsPercentage: 2,
				},
				LowBlocks: []parser.RingWindow{{"RX[00]:", "curr", "low:", "511", "8"}},
				Bars: []parser.Bar{
					{Label: "RX[00]:", Value: 25},
					{Label: "RX[01]:", Value: 75},
				},
			},
			{
				Ordinal:    2,
				CounterErr: &parser.FieldError{Field: "no_buffer", Index: 5, Token: "x"},
			},
			{
				Ordinal:    3,
				CounterErr: parser.ErrInsufficientFields,
				SeriesErr:  parser.ErrSeriesMismatch,
			},
		},
	}
}

type recordingChart struct {
	charts []Chart
	err    error
}

func (r *recordingChart) Render(c Chart) error {
	r.charts = append(r.charts, c)
	return r.err
}

func TestReporter_Write(t *testing.T) {
	var out bytes.Buffer
	rec := &recordingChart{}
	r := Reporter{Out: &out, Charts: []ChartRenderer{rec}}

	if err := r.Write(sampleResult()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Packets_Input: 100\n",
		"No Buffer: 3\n",
		"Overruns: 2\n",
		"No Buffer Percentage: 3.00%\n",
		"Overruns Percentage: 2.00%\n",
		"Potential RX rings with Current or Previous Low Blocks for Interface Block Number 1, low Blocks threshold is 10:\nRX[00]: curr low: 511 8\n",
		msgNonNumeric,
		msgInsufficient,
		"RX chart skipped for Interface Block 2: no RX packet counts",
		"RX chart skipped for Interface Block 3:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}

	if len(rec.charts) != 1 {
		t.Fatalf("rendered %d charts, want 1", len(rec.charts))
	}
	c := rec.charts[0]
	if c.Title != "RX Data Analysis for Interface_Block1" || c.XLabel != "RXInterface_data_1" || c.YLabel != "RX_Percentages" {
		t.Fatalf("chart = %+v", c)
	}
}

func TestReporter_ChartFailureDoesNotAbort(t *testing.T) {
	var out bytes.Buffer
	rec := &recordingChart{err: errors.New("disk full")}
	r := Reporter{Out: &out, Charts: []ChartRenderer{rec}}
	if err := r.Write(sampleResult()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Interface Block 3:") {
		t.Fatalf("later blocks missing:\n%s", out.String())
	}
}

func TestReporter_NoBlocks(t *testing.T) {
	var out bytes.Buffer
	if err := (Reporter{Out: &out}).Write(analyzer.Result{}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if !strings.Contains(out.String(), "No interface blocks") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestTextChart(t *testing.T) {
	var out bytes.Buffer
	c := NewChart(4, []parser.Bar{{Label: "RX[00]:", Value: 25}, {Label: "RX[01]:", Value: 75}})
	if err := (TextChart{Out: &out, Width: 20}).Render(c); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "RX Data Analysis for Interface_Block4" {
		t.Fatalf("title = %q", lines[0])
	}
	if strings.Count(lines[2], "#") != 5 || strings.Count(lines[3], "#") != 15 {
		t.Fatalf("bars = %q / %q", lines[2], lines[3])
	}
	if !strings.HasSuffix(lines[3], "75.00%") {
		t.Fatalf("bar line = %q", lines[3])
	}
}

func TestPNGChart(t *testing.T) {
	p := PNGChart{Dir: t.TempDir(), Width: 640, Height: 400}
	c := NewChart(1, []parser.Bar{
		{Label: "RX[00]:", Value: 25},
		{Label: "RX[01]:", Value: 75},
		{Label: "RX[02]:", Value: 0},
	})
	if err := p.Render(c); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	f, err := os.Open(p.Path(1))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 400 {
		t.Fatalf("bounds = %v, want 640x400", b)
	}
}
