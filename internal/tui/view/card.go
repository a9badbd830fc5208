package view

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/glabrego/storyreel/internal/feed"
	"github.com/glabrego/storyreel/internal/render/text"
	tuitheme "github.com/glabrego/storyreel/internal/tui/theme"
)

// PlayingMarker tags the one card whose media is playing.
const PlayingMarker = "▶ playing"

type CardParams struct {
	Item   feed.Item
	Index  int
	Total  int
	Active bool
	Width  int
	Height int
}

// CardLines renders one story card as exactly Height lines.
func CardLines(p CardParams, th tuitheme.Theme) []string {
	width := max(p.Width, 10)
	lines := make([]string, 0, p.Height)

	marker := strings.Repeat(" ", runewidth.StringWidth(PlayingMarker))
	if p.Active {
		marker = th.Playing.Render(PlayingMarker)
	}
	lines = append(lines, marker)

	title := strings.TrimSpace(p.Item.Title)
	if title == "" {
		title = p.Item.Slug
	}
	for _, l := range text.Wrap(title, width) {
		lines = append(lines, th.StyleCardTitle(p.Active, Truncate(l, width)))
	}

	if byline := Byline(p.Item); byline != "" {
		lines = append(lines, th.MetaValue.Render(Truncate(byline, width)))
	}
	lines = append(lines, "")

	if p.Item.Description != "" {
		for _, l := range text.Wrap(p.Item.Description, width) {
			lines = append(lines, th.CardBody.Render(l))
		}
	}

	footer := th.MetaLabel.Render("media") + " " + th.MetaValue.Render(Truncate(mediaLabel(p.Item), width-6))
	return fit(lines, footer, p.Height)
}

// Byline joins channel and reporter, skipping whichever is missing.
func Byline(item feed.Item) string {
	parts := make([]string, 0, 2)
	if c := strings.TrimSpace(item.Channel); c != "" {
		parts = append(parts, c)
	}
	if r := strings.TrimSpace(item.Reporter); r != "" {
		parts = append(parts, "by "+r)
	}
	return strings.Join(parts, " • ")
}

// Truncate shortens s to width terminal cells, ending in an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func mediaLabel(item feed.Item) string {
	if item.MediaURL == "" {
		return "none"
	}
	return item.MediaURL
}

// fit pads or cuts body so that, with footer on the last row, it is height
// lines long.
func fit(body []string, footer string, height int) []string {
	if height <= 0 {
		return nil
	}
	if height == 1 {
		return []string{footer}
	}
	if len(body) > height-1 {
		body = body[:height-1]
	}
	out := make([]string, 0, height)
	out = append(out, body...)
	for len(out) < height-1 {
		out = append(out, "")
	}
	return append(out, footer)
}
