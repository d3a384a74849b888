package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/mdblog"
)

var draftFlags struct {
	slug        string
	date        string
	tags        string
	category    string
	description string
}

var draftCmd = &cobra.Command{
	Use:   "draft <title>",
	Short: "Start a new post",
	Long: `The draft command writes a markdown page with a front-matter header into
the pages directory. The file is named <date>-<slug>.md; an existing page is
never overwritten.`,
	Example: `  mdblog draft "Hello World" --tags go,web --category notes`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		path, err := app.NewDraft(mdblog.Draft{
			Title:       strings.Join(args, " "),
			Slug:        draftFlags.slug,
			Date:        draftFlags.date,
			Tags:        mdblog.SplitTags(draftFlags.tags),
			Category:    draftFlags.category,
			Description: draftFlags.description,
		})
		if err != nil {
			return err
		}
		cmd.Println(path)
		return nil
	},
}

func init() {
	f := draftCmd.Flags()
	f.StringVar(&draftFlags.slug, "slug", "", "file name slug (default derived from the title)")
	f.StringVar(&draftFlags.date, "date", "", "post date, YYYY-MM-DD (default today)")
	f.StringVar(&draftFlags.tags, "tags", "", "comma-separated tags")
	f.StringVar(&draftFlags.category, "category", "", "post category")
	f.StringVar(&draftFlags.description, "description", "", "summary for the feed")
	rootCmd.AddCommand(draftCmd)
}
