package source

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_ASCII(t *testing.T) {
	content := "Interface Internal-Data0/0 \"\", is up, line protocol is up\r\n" +
		"  RX[00]: 1000 packets, 64000 bytes, 0 overrun\r\n" +
		"          Blocks free curr/low: 511/8\r\n" +
		"Control Point Interface States:\r\n"
	path := writeFile(t, "capture.txt", []byte(strings.Repeat(content, 20)))

	doc, err := Load(path, Options{SniffBytes: DefaultSniffBytes})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.Encoding == "" {
		t.Fatalf("Encoding is empty")
	}
	if len(doc.Lines) != 80 {
		t.Fatalf("len(Lines) = %d, want 80", len(doc.Lines))
	}
	if doc.Lines[1] != "  RX[00]: 1000 packets, 64000 bytes, 0 overrun" {
		t.Fatalf("Lines[1] = %q", doc.Lines[1])
	}
}

func TestLoad_ForcedEncoding(t *testing.T) {
	// "Schnittstelle für RX" in ISO-8859-1
	raw := []byte("Schnittstelle f\xfcr RX\n")
	path := writeFile(t, "latin1.txt", raw)

	doc, err := Load(path, Options{Encoding: "iso-8859-1"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.Confidence != 100 {
		t.Fatalf("Confidence = %d, want 100", doc.Confidence)
	}
	if !reflect.DeepEqual(doc.Lines, []string{"Schnittstelle für RX"}) {
		t.Fatalf("Lines = %q", doc.Lines)
	}
}

func TestLoad_UnknownEncoding(t *testing.T) {
	path := writeFile(t, "capture.txt", []byte("RX\n"))
	_, err := Load(path, Options{Encoding: "no-such-charset"})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"), Options{})
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	path := writeFile(t, "empty.txt", nil)
	doc, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(doc.Lines) != 0 {
		t.Fatalf("Lines = %q, want none", doc.Lines)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"\n", []string{""}},
	}
	for _, tt := range tests {
		got := SplitLines(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
