package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/thinkforge/internal/achievement"
	"github.com/abhisek/thinkforge/internal/ui/theme"
	"github.com/spf13/cobra"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and which ones are unlocked",
	RunE:  runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
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

	list, err := eng.Achievements(ctx, user)
	if err != nil {
		return err
	}

	unlocked := 0
	var lastCat achievement.Category
	for _, s := range list {
		cat := achievement.Category(s.Achievement.Category)
		if cat != lastCat {
			fmt.Println()
			fmt.Println(theme.Title.Render(cat.Icon() + " " + cat.DisplayName()))
			fmt.Println(strings.Repeat("─", 50))
			lastCat = cat
		}
		if s.GrantedAt != nil {
			unlocked++
			fmt.Printf("  %s %-20s %s\n", theme.Good.Render("✓"), s.Achievement.Name,
				theme.Hint.Render(s.GrantedAt.Local().Format("Jan 2, 2006")))
			continue
		}
		fmt.Printf("  %s %-20s %s\n", theme.Hint.Render("·"), s.Achievement.Name,
			theme.Hint.Render(s.Achievement.Description))
	}
	fmt.Printf("\n%d of %d unlocked\n", unlocked, len(list))
	return nil
}
