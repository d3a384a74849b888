package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/mdblog/index"
	"github.com/eringen/mdblog/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <dir>",
	Short: "Create a new blog",
	Long: `The new command lays out a blog in a fresh directory: blog.yaml, the
listing and post pages, and a first post.`,
	Example: "  mdblog new myblog",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		cmd.Printf("Creating new blog: %s\n\n", dir)

		data := scaffold.NewData(dir, time.Now().Format(index.DateLayout))
		if err := scaffold.Write(dir, data, cmd.OutOrStdout()); err != nil {
			return err
		}

		cmd.Println()
		cmd.Println("Done! Next steps:")
		cmd.Println()
		cmd.Printf("  cd %s\n", dir)
		cmd.Println("  mdblog serve --watch")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
