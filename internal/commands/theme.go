package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/evychat/internal/theme"
)

func newThemeCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the display theme",
		Long: `Show or change the light/dark display theme. The choice is stored
durably and applies to every session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd, g, func(p *theme.Preference) (theme.Theme, error) {
				return p.Get(), nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd, g, func(p *theme.Preference) (theme.Theme, error) {
				return p.Get(), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd, g, func(p *theme.Preference) (theme.Theme, error) {
				return p.Toggle(), nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Set the theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(cmd, g, func(p *theme.Preference) (theme.Theme, error) {
				t, err := theme.Parse(args[0])
				if err != nil {
					return "", err
				}
				return t, p.Set(t)
			})
		},
	})

	return cmd
}

func runTheme(cmd *cobra.Command, g *globalOptions, apply func(*theme.Preference) (theme.Theme, error)) error {
	deps, err := loadDependencies(g, loadOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	t, err := apply(deps.Theme)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), t)
	return nil
}
