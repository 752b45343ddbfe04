package cmd

import (
	"fmt"
	"time"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/daily"
	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/ui/theme"
	"github.com/spf13/cobra"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show or complete the concept of the day",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().String("date", "", "Day as YYYY-MM-DD (default today, UTC)")
	dailyCmd.Flags().Bool("complete", false, "Mark the day's concept as done")
}

func runDaily(cmd *cobra.Command, args []string) error {
	user, err := userID(cmd)
	if err != nil {
		return err
	}
	at := time.Now().UTC()
	if v, _ := cmd.Flags().GetString("date"); v != "" {
		at, err = time.Parse(daily.DateLayout, v)
		if err != nil {
			return apperr.Invalid("date", v, "must be YYYY-MM-DD")
		}
	}
	complete, _ := cmd.Flags().GetBool("complete")

	ctx := cmd.Context()
	eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if complete {
		rec, err := eng.CompleteDaily(ctx, user, at)
		if err != nil {
			return err
		}
		fmt.Println(theme.Good.Render("Done for " + rec.Date + ". See you tomorrow."))
		return nil
	}

	a, err := eng.Today(ctx, user, at)
	if err != nil {
		return err
	}
	concept := a.Content.ConceptKey
	if c, ok := dimension.LookupConcept(concept); ok {
		concept = c.Name
	}
	body := fmt.Sprintf("%s\n%s\n\n%s  %s",
		theme.Title.Render(a.Content.Title),
		theme.Label.Render(concept),
		theme.Body.Render(fmt.Sprintf("%s, level %d", a.Dimension.DisplayName(), a.Level)),
		theme.Hint.Render(a.Date),
	)
	switch {
	case a.Completed:
		body += "\n" + theme.Good.Render("Completed")
	case a.Rerolled:
		body += "\n" + theme.Hint.Render("Fresh pick after finishing the last one")
	}
	fmt.Println(theme.Card.Render(body))
	return nil
}
