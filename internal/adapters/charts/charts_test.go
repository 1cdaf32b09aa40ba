package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "stegshare stats",
		Series{Title: "Posts per uploader", Name: "posts", Labels: []string{"alice", "bob"}, Values: []int{3, 1}},
		Series{Title: "Comments per post", Name: "comments"},
	)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"<html", "Posts per uploader", "alice"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Contains(html, "Comments per post") {
		t.Error("empty series should be skipped")
	}
}

func TestRender_NothingToChart(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "empty", Series{Title: "none"}); err == nil {
		t.Error("expected error for empty page")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "stats.html")
	err := WriteFile(path, "stats", Series{Title: "t", Name: "n", Labels: []string{"x"}, Values: []int{1}})
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("chart not written: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.html")
	if err := WriteFile(bad, "stats"); err == nil {
		t.Error("expected error")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("failed chart file should be removed")
	}
}
