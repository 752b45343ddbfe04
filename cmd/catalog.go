package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/thinkforge/internal/catalog"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/abhisek/thinkforge/internal/ui/theme"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the concept-content catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import content from an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in catalog",
	RunE:  runCatalogSeed,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	RunE:  runCatalogList,
}

func init() {
	catalogImportCmd.Flags().String("sheet", "", "Workbook sheet (default first sheet)")
	catalogListCmd.Flags().Bool("all", false, "Include unpublished items")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	sheet, _ := cmd.Flags().GetString("sheet")
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := catalog.Import(cmd.Context(), st.Repos(), catalog.ImportConfig{Path: args[0], Sheet: sheet})
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d rows: %d imported, %d skipped\n", res.TotalProcessed, res.Imported, res.Skipped)
	for _, e := range res.Errors {
		fmt.Println(theme.Warn.Render("  " + e))
	}
	return nil
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	items := catalog.Default()
	ctx := cmd.Context()
	if err := st.WithTx(ctx, func(tx store.Repos) error {
		return catalog.Seed(ctx, tx, items)
	}); err != nil {
		return err
	}
	fmt.Printf("Seeded %d catalog items\n", len(items))
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	items, err := st.Repos().ListContent(cmd.Context(), store.ContentFilter{PublishedOnly: !all})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println(theme.Hint.Render("Catalog is empty. Run `thinkforge catalog seed` or import a file."))
		return nil
	}

	fmt.Printf("%-28s %-24s %5s %5s %6s  %s\n", "ID", "Concept", "Level", "Diff", "Views", "Title")
	fmt.Println(strings.Repeat("─", 100))
	for _, c := range items {
		title := c.Title
		if !c.Published {
			title = theme.Hint.Render(title + " (draft)")
		}
		fmt.Printf("%-28s %-24s %5d %5d %6d  %s\n", c.ID, c.ConceptKey, c.Level, c.Difficulty, c.ViewCount, title)
	}
	return nil
}
