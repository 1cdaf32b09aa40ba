package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPadString(t *testing.T) {
	tests := []struct {
		s, align string
		width    int
		want     string
	}{
		{"ab", "left", 4, "ab  "},
		{"ab", "right", 4, "  ab"},
		{"ab", "center", 5, " ab  "},
		{"abcdef", "left", 3, "abcdef"},
		{"猫", "left", 4, "猫  "},
	}

	for _, tt := range tests {
		if got := padString(tt.s, tt.width, tt.align); got != tt.want {
			t.Errorf("padString(%q, %d, %s) = %q, want %q", tt.s, tt.width, tt.align, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello world", 0); got != "hello world" {
		t.Errorf("limit 0 should not truncate, got %q", got)
	}
	if got := truncate("hello world", 6); got != "hello…" {
		t.Errorf("expected hello…, got %q", got)
	}
	if got := truncate("猫猫猫", 4); lipgloss.Width(got) > 4 {
		t.Errorf("wide runes overflow: %q", got)
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "USER"},
		{Header: "CAPTION", MaxWidth: 8},
	})
	table.AddRow("1", "alice", "a very long caption")
	table.AddRow("22", "bob")

	out := table.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "a very …") {
		t.Errorf("expected truncated caption in:\n%s", out)
	}
	if strings.Contains(out, "long caption") {
		t.Error("caption was not truncated")
	}
}

func TestTableRender_NoColumns(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestHighlightJSON(t *testing.T) {
	if got := HighlightJSON("<html>oops</html>"); got != "<html>oops</html>" {
		t.Errorf("non-JSON must be returned unchanged, got %q", got)
	}

	got := HighlightJSON(`{"status":"weird"}`)
	if !strings.Contains(got, "status") || !strings.Contains(got, "\x1b[") {
		t.Errorf("expected colored JSON, got %q", got)
	}
}

func TestFormatBlock(t *testing.T) {
	got := FormatBlock("Upload failed:", "line one\nline two\n")
	if !strings.HasPrefix(got, "Upload failed:\n") {
		t.Errorf("heading missing: %q", got)
	}
	if !strings.Contains(got, "  line two") {
		t.Errorf("body not indented: %q", got)
	}
}

func TestRenderSimpleList(t *testing.T) {
	got := RenderSimpleList([]string{"first", "second"})
	if strings.Count(got, "\n") != 2 {
		t.Errorf("expected one line per item, got %q", got)
	}
	if !strings.Contains(got, "•") || !strings.Contains(got, "second") {
		t.Errorf("items missing: %q", got)
	}
	if RenderSimpleList(nil) != "" {
		t.Error("empty list should render nothing")
	}
}
