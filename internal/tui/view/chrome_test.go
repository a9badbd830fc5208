package view

import (
	"regexp"
	"strings"
	"testing"

	tuitheme "github.com/glabrego/storyreel/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func TestToolbar(t *testing.T) {
	if got := Toolbar(false); !strings.Contains(got, "j/space next") {
		t.Fatalf("unexpected toolbar: %q", got)
	}
	if got := Toolbar(true); !strings.Contains(got, "close help") {
		t.Fatalf("unexpected help toolbar: %q", got)
	}
}

func TestHeader(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(Header("/watch/bakery", 80, th))
	if !strings.Contains(got, "storyreel") || !strings.Contains(got, "/watch/bakery") {
		t.Fatalf("unexpected header: %q", got)
	}
	if got := stripANSI(Header("", 80, th)); !strings.Contains(got, " / ") {
		t.Fatalf("expected root path for empty address, got %q", got)
	}
}

func TestFooter(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(Footer(2, 9, 1, false, th))
	for _, want := range []string{"story 3/9", "page 1", "feed more"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in footer, got %q", want, got)
		}
	}
	if got := stripANSI(Footer(0, 0, 0, true, th)); !strings.Contains(got, "story 0/0") || !strings.Contains(got, "feed end") {
		t.Fatalf("unexpected empty footer: %q", got)
	}
}

func TestProgress(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(Progress(1, 3, 10, th))
	if got != "·●·" {
		t.Fatalf("unexpected progress: %q", got)
	}
	got = stripANSI(Progress(9, 20, 5, th))
	if got != "··●··" {
		t.Fatalf("unexpected windowed progress: %q", got)
	}
}

func TestMessage(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(Message(false, false, "", "", th)); !strings.Contains(got, "state: idle | Ready") {
		t.Fatalf("unexpected idle message: %q", got)
	}
	if got := stripANSI(Message(true, false, "", "", th)); !strings.Contains(got, "state: loading") {
		t.Fatalf("unexpected loading message: %q", got)
	}
	if got := stripANSI(Message(false, true, "", "boom", th)); !strings.Contains(got, "state: warning | boom") {
		t.Fatalf("unexpected warning message: %q", got)
	}
}

func TestBannerAndUnavailable(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(Banner(th)); !strings.Contains(got, "No more stories") {
		t.Fatalf("unexpected banner: %q", got)
	}
	got := stripANSI(Unavailable("sagar.mojonetwork.in", th))
	if !strings.Contains(got, "Story Unavailable") || !strings.Contains(got, "sagar.mojonetwork.in") {
		t.Fatalf("unexpected unavailable view: %q", got)
	}
}
