package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/evychat/internal/config"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change evychat settings stored in config.json.

Settable keys: ` + strings.Join(config.Keys(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-key [key]",
		Short: "Save the Gemini API key",
		Long: `Save the Gemini API key to the config directory with owner-only
permissions. Without an argument the key is read from the terminal
without echo, or from piped stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSetKey(cmd, args)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})

	return cmd
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, string(data))

	key, err := config.LoadAPIKey()
	if err != nil {
		fmt.Fprintln(out, "api_key: (not set)")
	} else {
		fmt.Fprintf(out, "api_key: %s\n", config.MaskAPIKey(key))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	var key string
	switch {
	case len(args) > 0:
		key = args[0]
	case stdin == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Fprint(cmd.ErrOrStderr(), "Gemini API key: ")
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		key = string(data)
	}

	if err := config.SaveAPIKey(key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "API key saved (%s)\n", config.MaskAPIKey(strings.TrimSpace(key)))
	return nil
}
