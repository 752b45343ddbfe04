package cmd

import (
	"fmt"

	"github.com/abhisek/thinkforge/internal/achievement"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/engine"
	"github.com/abhisek/thinkforge/internal/mastery"
	"github.com/abhisek/thinkforge/internal/ui/theme"
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Record practice sessions",
}

var practiceSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a finished practice session",
	RunE:  runPracticeSubmit,
}

func init() {
	f := practiceSubmitCmd.Flags()
	f.String("dimension", "", "Dimension (e.g. fallacy-detection)")
	f.Int("level", 1, "Level practiced (1-5)")
	f.StringSlice("concepts", nil, "Concept keys touched, comma separated")
	f.Int("score", 0, "Session score (0-100)")
	f.String("activity", "practice", "Activity: practice, conversation, perspective, argument_analysis")
	f.Int("duration", 0, "Session length in seconds")
	_ = practiceSubmitCmd.MarkFlagRequired("dimension")
	_ = practiceSubmitCmd.MarkFlagRequired("concepts")
	_ = practiceSubmitCmd.MarkFlagRequired("score")

	practiceCmd.AddCommand(practiceSubmitCmd)
}

func runPracticeSubmit(cmd *cobra.Command, args []string) error {
	user, err := userID(cmd)
	if err != nil {
		return err
	}
	dimVal, _ := cmd.Flags().GetString("dimension")
	level, _ := cmd.Flags().GetInt("level")
	concepts, _ := cmd.Flags().GetStringSlice("concepts")
	score, _ := cmd.Flags().GetInt("score")
	activityVal, _ := cmd.Flags().GetString("activity")
	duration, _ := cmd.Flags().GetInt("duration")

	dim, err := dimension.Parse(dimVal)
	if err != nil {
		return err
	}
	activity, err := achievement.ParseActivity(activityVal)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := eng.Submit(ctx, engine.PracticeOutcome{
		UserID:          user,
		Dimension:       dim,
		Level:           dimension.Level(level),
		Concepts:        concepts,
		Score:           score,
		Activity:        activity,
		DurationSeconds: duration,
	})
	if err != nil {
		return err
	}

	fmt.Println(theme.Title.Render("Session recorded: " + dim.DisplayName()))
	for _, c := range res.Mastery {
		name := c.Key.Concept
		if concept, ok := dimension.LookupConcept(c.Key.Concept); ok {
			name = concept.Name
		}
		from := "new"
		if !c.Cold {
			from = mastery.Percent(c.From)
		}
		fmt.Printf("  %-28s %5s -> %-5s %s\n", name, from, mastery.Percent(c.To),
			theme.Hint.Render(string(mastery.BandFor(c.To))))
	}

	p := res.Progress.Progress
	fmt.Printf("\n%s level %d  %s %d%%\n", theme.Label.Render("Progress"),
		p.CurrentLevel, theme.Bar(p.ProgressPercentage, 20), p.ProgressPercentage)
	for _, l := range res.Progress.Unlocked() {
		fmt.Println(theme.Good.Render(fmt.Sprintf("  Level %d unlocked!", l)))
	}
	for _, g := range res.Grants {
		cat := achievement.Category(g.Achievement.Category)
		fmt.Printf("  %s %s %s\n", cat.Icon(), theme.Good.Render(g.Achievement.Name),
			theme.Hint.Render(g.Achievement.Description))
	}
	return nil
}
