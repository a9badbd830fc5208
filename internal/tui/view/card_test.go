package view

import (
	"strings"
	"testing"

	"github.com/glabrego/storyreel/internal/feed"
	tuitheme "github.com/glabrego/storyreel/internal/tui/theme"
)

func TestCardLines_ExactHeightAndMarker(t *testing.T) {
	th := tuitheme.Default()
	item := feed.Item{
		Slug:        "bakery",
		Title:       "New bakery opens downtown",
		Description: "The bakery on Main Street opened its doors this morning.",
		MediaURL:    "https://cdn.example.com/bakery.mp4",
		Reporter:    "Jane Doe",
		Channel:     "Anytown News",
	}

	active := CardLines(CardParams{Item: item, Active: true, Width: 40, Height: 10}, th)
	if len(active) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(active))
	}
	joined := stripANSI(strings.Join(active, "\n"))
	for _, want := range []string{PlayingMarker, "New bakery opens downtown", "Anytown News • by Jane Doe", "media https://cdn.example.com/bakery.mp4"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in card, got:\n%s", want, joined)
		}
	}

	idle := CardLines(CardParams{Item: item, Active: false, Width: 40, Height: 10}, th)
	if strings.Contains(stripANSI(strings.Join(idle, "\n")), PlayingMarker) {
		t.Fatal("only the active card may show the playing marker")
	}
}

func TestCardLines_CutsLongBodyKeepingFooter(t *testing.T) {
	th := tuitheme.Default()
	item := feed.Item{Slug: "long", Description: strings.Repeat("word ", 200)}
	lines := CardLines(CardParams{Item: item, Width: 20, Height: 5}, th)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if got := stripANSI(lines[4]); got != "media none" {
		t.Fatalf("expected media footer on last line, got %q", got)
	}
	if got := stripANSI(lines[1]); got != "long" {
		t.Fatalf("expected slug as title fallback, got %q", got)
	}
}

func TestByline(t *testing.T) {
	if got := Byline(feed.Item{Channel: "C"}); got != "C" {
		t.Fatalf("unexpected byline: %q", got)
	}
	if got := Byline(feed.Item{Reporter: "R"}); got != "by R" {
		t.Fatalf("unexpected byline: %q", got)
	}
	if got := Byline(feed.Item{}); got != "" {
		t.Fatalf("expected empty byline, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 8); got != "hello w…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Truncate("日本語テキスト", 6); got != "日本…" {
		t.Fatalf("unexpected wide truncation: %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("expected untouched string, got %q", got)
	}
}
