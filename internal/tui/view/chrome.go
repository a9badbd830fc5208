package view

import (
	"fmt"
	"strings"

	tuistate "github.com/glabrego/storyreel/internal/tui/state"
	tuitheme "github.com/glabrego/storyreel/internal/tui/theme"
)

// EndBannerText is shown once the viewer reaches the end of an exhausted feed.
const EndBannerText = "No more stories"

func Header(address string, width int, th tuitheme.Theme) string {
	title := th.Title.Render("storyreel")
	if address == "" {
		address = "/"
	}
	return title + " " + th.AddressPill.Render(Truncate(address, max(width-14, 1)))
}

func Toolbar(showHelp bool) string {
	if showHelp {
		return "?/esc: close help | q: quit"
	}
	return "j/space next | k prev | g/G first/last | o open | ? help | q quit"
}

func Footer(active, total, page int, exhausted bool, th tuitheme.Theme) string {
	position := "0/0"
	if total > 0 {
		position = fmt.Sprintf("%d/%d", active+1, total)
	}
	feedState := "more"
	if exhausted {
		feedState = "end"
	}
	parts := []string{
		th.MetaLabel.Render("story") + " " + th.Counter.Render(position),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d", page)),
		th.MetaLabel.Render("feed") + " " + th.MetaValue.Render(feedState),
	}
	return strings.Join(parts, " • ")
}

// Progress draws one dot per story around the active one, at most width dots.
func Progress(active, total, width int, th tuitheme.Theme) string {
	if total <= 0 {
		return ""
	}
	start, end := tuistate.CenteredWindow(total, active, width)
	var b strings.Builder
	for i := start; i < end; i++ {
		if i == active {
			b.WriteString(th.DotActive.Render("●"))
		} else {
			b.WriteString(th.Dot.Render("·"))
		}
	}
	return b.String()
}

func Message(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func Banner(th tuitheme.Theme) string {
	return th.Banner.Render(EndBannerText)
}

// Unavailable is the whole-screen message for a feed with no stories.
func Unavailable(fullDomain string, th tuitheme.Theme) string {
	return th.Unavailable.Render("Story Unavailable") + "\n" + th.MetaValue.Render(fullDomain)
}
