package main

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the post index, feed and sitemap",
	Long: `The build command reads every markdown page under the pages directory
and writes posts.json, feed.xml, sitemap.xml and robots.txt into the site
directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := newApp()
		defer app.Close()

		res, err := app.Build()
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			cmd.Printf("  wrote %s\n", f)
		}
		cmd.Printf("%d posts indexed\n", len(res.Posts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
