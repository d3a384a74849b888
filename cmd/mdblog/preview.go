package main

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/mdblog/fetch"
	"github.com/eringen/mdblog/listing"
	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/page"
	"github.com/eringen/mdblog/post"
)

var previewFlags struct {
	source string
	output string
	tag    string
	search string
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a page to HTML",
	Long: `The preview commands render the listing page or a single post the way a
browser would see them after loading, and write the resulting HTML.`,
}

var previewListCmd = &cobra.Command{
	Use:   "list",
	Short: "Render the listing page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := newFetcher(previewFlags.source)
		if err != nil {
			return err
		}
		view := siteCfg.View()
		doc := listing.NewPage(view)
		if err := applyTheme(doc); err != nil {
			return err
		}

		l := listing.New(f, listing.NewDocumentView(doc, view),
			listing.WithIndexPath(siteCfg.IndexFile),
			listing.WithLogger(logger),
		)
		if err := l.Load(cmd.Context()); err != nil {
			return err
		}
		if previewFlags.search != "" {
			if err := l.FilterAndRender(previewFlags.search); err != nil {
				return err
			}
		}
		if previewFlags.tag != "" {
			if err := l.SelectTag(previewFlags.tag); err != nil {
				return err
			}
		}
		return writeDocument(cmd, doc)
	},
}

var previewPostCmd = &cobra.Command{
	Use:   "post <file>",
	Short: "Render a single post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := newFetcher(previewFlags.source)
		if err != nil {
			return err
		}
		doc := post.NewPage()
		if err := applyTheme(doc); err != nil {
			return err
		}

		r := post.New(f, doc, markdown.NewConverter(siteCfg.MarkdownOptions()),
			post.WithSite(siteCfg.View()),
			post.WithComments(siteCfg.Comments),
			post.WithLogger(logger),
		)
		defer r.Close()

		// The error state is part of the page, so it is written either way.
		loadErr := r.Load(cmd.Context(), url.Values{post.QueryParam: {args[0]}})
		if err := writeDocument(cmd, doc); err != nil {
			return err
		}
		return loadErr
	},
}

func init() {
	pf := previewCmd.PersistentFlags()
	pf.StringVar(&previewFlags.source, "source", "", "site directory or URL (default the configured site_dir)")
	pf.StringVarP(&previewFlags.output, "output", "o", "", "write HTML to this file instead of stdout")

	previewListCmd.Flags().StringVar(&previewFlags.tag, "tag", "", "select a tag")
	previewListCmd.Flags().StringVar(&previewFlags.search, "search", "", "apply a search term")

	previewCmd.AddCommand(previewListCmd, previewPostCmd)
	rootCmd.AddCommand(previewCmd)
}

// newFetcher reads from source, or from the site directory when empty.
func newFetcher(source string) (fetch.Fetcher, error) {
	if source == "" {
		source = siteCfg.SiteDir
	}
	return fetch.New(source, os.DirFS)
}

func applyTheme(doc *page.Document) error {
	_, err := newThemeController(doc)
	return err
}

func writeDocument(cmd *cobra.Command, doc *page.Document) error {
	var w io.Writer = cmd.OutOrStdout()
	if previewFlags.output != "" {
		f, err := os.Create(previewFlags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return doc.WriteHTML(context.Background(), w)
}
