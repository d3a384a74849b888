package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/eringen/mdblog/theme"
)

// systemTheme reads the terminal background as the system preference.
func systemTheme() theme.Theme {
	if lipgloss.HasDarkBackground() {
		return theme.Dark
	}
	return theme.Light
}

func newThemeController(root theme.Root) (*theme.Controller, error) {
	store, err := theme.DefaultFileStore()
	if err != nil {
		return nil, err
	}
	return theme.NewController(store, root, systemTheme(), theme.WithLogger(logger)), nil
}

// discardRoot is a root for commands that only read or write the preference.
type discardRoot struct{}

func (discardRoot) SetAttr(string, string) {}

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|system]",
	Short: "Show or set the preferred theme",
	Long: `Without arguments, theme prints the theme previews are rendered with.
"light" or "dark" stores a preference; "system" forgets it and follows the
terminal background again.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "system"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newThemeController(discardRoot{})
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if args[0] == "system" {
				if err := c.Clear(); err != nil {
					return err
				}
			} else {
				t, ok := theme.Parse(args[0])
				if !ok {
					return fmt.Errorf("unknown theme %q", args[0])
				}
				if err := c.Set(t); err != nil {
					return err
				}
			}
		}
		source := "system"
		if c.Persisted() {
			source = "saved"
		}
		cmd.Printf("%s (%s)\n", c.Current(), source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
