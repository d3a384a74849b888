package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/mdblog"
	"github.com/eringen/mdblog/comments"
)

var (
	cfgFile string
	verbose bool
	siteCfg mdblog.SiteConfig
	logger  = log.New("mdblog")
)

var rootCmd = &cobra.Command{
	Use:   "mdblog",
	Short: "A static markdown blog",
	Long: `mdblog turns a directory of markdown posts into a static blog: it builds
the post index, RSS feed and sitemap, serves the site locally, and renders
pages for preview in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initializeConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./blog.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("site-dir", "", "static site root (default \"site\")")
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"site-dir": "site_dir",
	"addr":     "addr",
	"watch":    "watch",
}

func initializeConfig(cmd *cobra.Command) error {
	v := newViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("blog")
		v.SetConfigType("yaml")
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if verbose {
		logger.SetLevel(log.DEBUG)
	} else {
		logger.SetLevel(log.INFO)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		logger.Debugf("no blog.yaml found, using defaults and environment")
	} else {
		logger.Debugf("using config file %s", v.ConfigFileUsed())
	}

	siteCfg = mdblog.SiteConfig{}
	if err := v.Unmarshal(&siteCfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	siteCfg.Comments.SetLocale(siteCfg.Locale)
	return nil
}

// newViper returns a viper instance knowing every configuration key, so each
// one can be overridden from an MDBLOG_ environment variable.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("name", "Blog")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("locale", "en_US")
	v.SetDefault("addr", ":3000")
	v.SetDefault("site_dir", "site")
	v.SetDefault("pages_dir", "pages")
	v.SetDefault("index_file", "posts.json")
	v.SetDefault("highlight_style", "github")
	v.SetDefault("search_debounce", "300ms")
	v.SetDefault("watch_debounce", "500ms")
	v.SetDefault("watch", false)

	c := comments.DefaultConfig()
	v.SetDefault("comments.repo", c.Repo)
	v.SetDefault("comments.repo_id", c.RepoID)
	v.SetDefault("comments.category", c.Category)
	v.SetDefault("comments.category_id", c.CategoryID)
	v.SetDefault("comments.mapping", c.Mapping)
	v.SetDefault("comments.strict", c.Strict)
	v.SetDefault("comments.reactions", c.Reactions)
	v.SetDefault("comments.emit_metadata", c.EmitMetadata)
	v.SetDefault("comments.input_position", c.InputPosition)
	v.SetDefault("comments.lang", "") // follows locale
	v.SetDefault("comments.loading", c.Loading)

	v.SetEnvPrefix("MDBLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// newApp returns an App for the loaded configuration.
func newApp(opts ...mdblog.Option) *mdblog.App {
	return mdblog.New(siteCfg, append([]mdblog.Option{mdblog.WithLogger(logger)}, opts...)...)
}
