package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestStyleCardTitle_ByActivity(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	active := th.StyleCardTitle(true, "Active")
	if !strings.Contains(active, "\x1b[") || !strings.Contains(active, "Active") {
		t.Fatalf("expected styled active title, got %q", active)
	}

	idle := th.StyleCardTitle(false, "Idle")
	if !strings.Contains(idle, "\x1b[") {
		t.Fatalf("expected styled idle title, got %q", idle)
	}
	if active == th.StyleCardTitle(false, "Active") {
		t.Fatal("expected active and idle titles to differ")
	}

	if got := th.StyleCardTitle(true, ""); got != "" {
		t.Fatalf("expected empty title untouched, got %q", got)
	}
}
