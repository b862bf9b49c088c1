// Package commands provides CLI commands for evychat.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	model     string
	session   string
	noSearch  bool
	verbose   bool
	ephemeral bool
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}
	ask := &askOptions{}

	cmd := &cobra.Command{
		Use:   "evychat [prompt]",
		Short: "Chat with EVy, an assistant for Tesla, EVs and sustainability",
		Long: `evychat is a terminal chat client for EVy, an AI assistant that answers
questions about Tesla, electric vehicles, batteries and charging. Answers
stream from Gemini and, with search grounding on, carry web citations.

Examples:
  evychat                               Start interactive chat
  evychat "How long does a Supercharger stop take?"
  evychat ask -f question.md            Read prompt from file
  cat question.md | evychat ask         Read prompt from stdin
  evychat theme toggle                  Switch between light and dark
  evychat history export -o chat.md     Export the current conversation`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "evychat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if len(args) > 0 || ask.file != "" || stdinIsPiped() {
				return runAsk(cmd, g, ask, args)
			}
			return runChat(g)
		},
	}

	cmd.PersistentFlags().StringVarP(&g.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	cmd.PersistentFlags().StringVarP(&g.session, "session", "s", "", "Conversation session name")
	cmd.PersistentFlags().BoolVar(&g.noSearch, "no-search", false, "Disable Google Search grounding")
	cmd.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&g.ephemeral, "ephemeral", false, "Keep conversation and theme in memory only")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	bindAskFlags(cmd, ask)

	cmd.AddCommand(newChatCmd(g))
	cmd.AddCommand(newAskCmd(g))
	cmd.AddCommand(newThemeCmd(g))
	cmd.AddCommand(newHistoryCmd(g))
	cmd.AddCommand(newConfigCmd(g))

	return cmd
}

var rootCmd = NewRootCmd()

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}
