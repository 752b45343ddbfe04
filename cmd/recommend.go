package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/recommend"
	"github.com/abhisek/thinkforge/internal/ui/theme"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show what to practice next",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().IntP("top", "n", 1, "Number of dimensions to rank (0 = all)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	user, err := userID(cmd)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("top")

	ctx := cmd.Context()
	eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var recs []recommend.Recommendation
	if n == 1 {
		rec, err := eng.Next(ctx, user)
		if err != nil {
			return err
		}
		recs = []recommend.Recommendation{*rec}
	} else {
		recs, err = eng.TopN(ctx, user, n)
		if err != nil {
			return err
		}
	}
	if len(recs) == 0 {
		fmt.Println(theme.Hint.Render("No practice yet. Start with " + dimension.Starter.DisplayName() + "."))
		return nil
	}

	fmt.Println(theme.Title.Render("Recommended practice"))
	fmt.Printf("%-26s %6s  %-8s %s\n", "Dimension", "Score", "Priority", "Reason")
	fmt.Println(strings.Repeat("─", 70))
	for _, r := range recs {
		fmt.Printf("%-26s %6.2f  %-8s %s\n", r.Dimension.DisplayName(), r.Score,
			theme.Priority(string(r.Priority)), r.Reason)
		if len(r.WeakConcepts) > 0 {
			names := make([]string, len(r.WeakConcepts))
			for i, key := range r.WeakConcepts {
				names[i] = key
				if c, ok := dimension.LookupConcept(key); ok {
					names[i] = c.Name
				}
			}
			fmt.Println(theme.Hint.Render("    focus: " + strings.Join(names, ", ")))
		}
	}
	return nil
}
