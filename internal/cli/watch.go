package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/storyreel/internal/feed"
	"github.com/glabrego/storyreel/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [slug]",
	Short: "Open the story feed in the terminal",
	Long: `Watch opens the interactive feed. With a slug the feed starts at that
story; without one it resumes at the last story watched for this host.

Example:
  storyreel watch
  storyreel watch new-bakery-opens-downtown --host sagar.mojonetwork.in`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	env, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	slug := ""
	if len(args) == 1 {
		slug = args[0]
	}
	seed, err := env.service.Seed(ctx, slug)
	if err != nil {
		return fmt.Errorf("load stories: %w", err)
	}
	if seed.FromCache {
		env.logger.Warn("backend unreachable, showing cached stories", "count", len(seed.Items))
	}

	address := tui.NewAddressBar(env.initialPath(seed.DeepLink))
	session := feed.NewSession(seed.Items, seed.DeepLink, env.service, address, env.sessionOptions())
	defer session.Close()

	model := tui.NewModel(session, address, tui.Options{
		FullDomain: env.scope.FullDomain,
		Saver:      env.service,
		Logger:     env.logger.WithPrefix("tui"),
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
