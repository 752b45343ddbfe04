package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/thinkforge/internal/progress"
	"github.com/abhisek/thinkforge/internal/ui/theme"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show level progress in every dimension",
	RunE:  runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	user, err := userID(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	rows, err := eng.Progress(ctx, user)
	if err != nil {
		return err
	}

	fmt.Println(theme.Title.Render("Progress for " + user))
	fmt.Printf("%-26s %-9s %-19s %s\n", "Dimension", "Levels", "Sessions L1-L5", "Overall")
	fmt.Println(strings.Repeat("─", 80))
	for _, p := range rows {
		var levels strings.Builder
		for _, open := range progress.Unlocked(p.CurrentLevel) {
			if open {
				levels.WriteString("●")
			} else {
				levels.WriteString("○")
			}
		}
		counts := make([]string, len(p.Levels))
		for i, l := range p.Levels {
			counts[i] = fmt.Sprint(l.QuestionsCompleted)
		}
		fmt.Printf("%-26s %-9s %-19s %s %3d%%\n", p.Dimension.DisplayName(), levels.String(),
			strings.Join(counts, "/"), theme.Bar(p.ProgressPercentage, 20), p.ProgressPercentage)
	}
	return nil
}
