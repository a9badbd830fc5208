package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/storyreel/internal/feed"
)

// FrameInterval paces scroll animation frames.
const FrameInterval = 30 * time.Millisecond

// PositionSaver persists the address bar path after each replace.
type PositionSaver interface {
	SavePosition(ctx context.Context, path string) error
}

type FrameMsg struct {
	Gen int
}

type PageResultMsg struct {
	Result feed.PageResult
}

type BannerExpireMsg struct {
	Gen int
}

type PositionSaveErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
}

type OpenURLErrorMsg struct {
	Err error
}

type ClearStatusMsg struct {
	ID int
}

func FrameCmd(gen int) tea.Cmd {
	return tea.Tick(FrameInterval, func(time.Time) tea.Msg {
		return FrameMsg{Gen: gen}
	})
}

// WaitPageCmd delivers the result of an in-flight page load.
func WaitPageCmd(pending <-chan feed.PageResult) tea.Cmd {
	return func() tea.Msg {
		return PageResultMsg{Result: <-pending}
	}
}

func BannerExpireCmd(gen int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return BannerExpireMsg{Gen: gen}
	})
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

// SavePositionCmd stores path under parent, which is the session context, so
// saves still queued at teardown are abandoned.
func SavePositionCmd(parent context.Context, saver PositionSaver, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		defer cancel()
		if err := saver.SavePosition(ctx, path); err != nil {
			return PositionSaveErrorMsg{Err: err}
		}
		return nil
	}
}

func OpenURLCmd(url string, openFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn == nil {
			return OpenURLErrorMsg{Err: fmt.Errorf("no media opener configured")}
		}
		if err := openFn(url); err != nil {
			return OpenURLErrorMsg{Err: fmt.Errorf("open media: %w", err)}
		}
		return OpenURLSuccessMsg{Status: "Opened story media"}
	}
}
