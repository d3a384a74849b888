package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/theme"
	"github.com/eringen/mdblog/tui"
)

var browseSource string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Read the blog in the terminal",
	Long: `The browse command opens an interactive reader: the post list with its
tag bar and search box, and each post rendered to text.

Controls:
  ↑/k, ↓/j - Move
  ←/h, →/l - Select tag
  /        - Search (enter applies, esc clears)
  Enter    - Read post
  t        - Toggle theme
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := newFetcher(browseSource)
		if err != nil {
			return err
		}
		store, err := theme.DefaultFileStore()
		if err != nil {
			return err
		}

		// Log lines would corrupt the screen.
		logger.SetOutput(io.Discard)
		if verbose {
			lf, err := tea.LogToFile("mdblog-debug.log", "")
			if err != nil {
				return err
			}
			defer lf.Close()
			logger.SetOutput(lf)
		}

		return tui.Run(cmd.Context(), tui.Config{
			Fetcher:     f,
			Site:        siteCfg.View(),
			IndexPath:   siteCfg.IndexFile,
			Comments:    siteCfg.Comments,
			Converter:   markdown.NewConverter(siteCfg.MarkdownOptions()),
			SearchDelay: siteCfg.SearchDebounce,
			Store:       store,
			System:      systemTheme(),
			Logger:      logger,
		})
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseSource, "source", "", "site directory or URL (default the configured site_dir)")
	rootCmd.AddCommand(browseCmd)
}
