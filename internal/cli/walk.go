package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/storyreel/internal/feed"
	"github.com/glabrego/storyreel/internal/tui"
	tuiview "github.com/glabrego/storyreel/internal/tui/view"
)

var (
	walkLimit int
	walkDelay time.Duration
)

var walkCmd = &cobra.Command{
	Use:   "walk [slug]",
	Short: "Scroll through the feed without a terminal UI",
	Long: `Walk drives the feed headlessly: it activates one story after another,
loading pages as it nears the end, and prints each story until the feed is
exhausted or --limit stories were shown.

Example:
  storyreel walk --limit 20
  storyreel walk new-bakery-opens-downtown --delay 2s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWalk,
}

func init() {
	rootCmd.AddCommand(walkCmd)
	walkCmd.Flags().IntVar(&walkLimit, "limit", 0, "stop after this many stories (0 = until the feed ends)")
	walkCmd.Flags().DurationVar(&walkDelay, "delay", 0, "pause between stories")
}

func runWalk(cmd *cobra.Command, args []string) error {
	setupCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	env, err := bootstrap(setupCtx)
	if err != nil {
		return err
	}
	defer env.Close()

	slug := ""
	if len(args) == 1 {
		slug = args[0]
	}
	seed, err := env.service.Seed(setupCtx, slug)
	if err != nil {
		return fmt.Errorf("load stories: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(seed.Items) == 0 {
		fmt.Fprintf(out, "Story Unavailable (%s)\n", env.scope.FullDomain)
		return nil
	}

	address := tui.NewAddressBar(env.initialPath(seed.DeepLink))
	session := feed.NewSession(seed.Items, seed.DeepLink, env.service, address, env.sessionOptions())
	defer session.Close()

	return walk(cmd.Context(), session, env.service, out, walkLimit, walkDelay)
}

// walk publishes one full-visibility signal per story through the session's
// hub and reports every activation, the way a viewer swiping through the
// feed would trigger them.
func walk(ctx context.Context, session *feed.Session, saver tui.PositionSaver, out io.Writer, limit int, delay time.Duration) error {
	acts := make(chan feed.Activation, 1)
	sub := session.Signals.Subscribe(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Tracker.Run(session.Context(), sub, func(a feed.Activation) {
			select {
			case acts <- a:
			case <-session.Context().Done():
			}
		})
	}()
	defer func() {
		session.Close()
		<-done
	}()

	idx := session.Store.ActiveIndex()
	for shown := 0; limit == 0 || shown < limit; shown++ {
		if session.Signals.Publish(feed.Visibility{Index: idx, Ratio: 1, Intersecting: true}) == 0 {
			return nil
		}

		var act feed.Activation
		select {
		case act = <-acts:
		case <-ctx.Done():
			return ctx.Err()
		}

		if act.PathReplaced && saver != nil {
			if err := saver.SavePosition(ctx, act.Path); err != nil {
				return err
			}
		}

		var res feed.PageResult
		if act.Pending != nil {
			select {
			case res = <-act.Pending:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		title := act.Item.Title
		if title == "" {
			title = act.Item.Slug
		}
		fmt.Fprintf(out, "[%d/%d] %s  %s\n", act.Index+1, session.Store.Len(), act.Path, title)
		if res.Outcome == feed.OutcomeAppended {
			fmt.Fprintf(out, "  loaded page %d (+%d stories)\n", res.Page, res.Added)
		}

		if session.UpdateEnd().Visible {
			fmt.Fprintln(out, tuiview.EndBannerText)
			return nil
		}
		idx = act.Index + 1

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
