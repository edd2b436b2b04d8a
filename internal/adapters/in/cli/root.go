// Package cli implements transferctl, the operator command line for running
// the transfer engine offline and inspecting the allocation policy.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

type rootOptions struct {
	policyPath string
	noColor    bool
}

// NewRootCommand builds the transferctl command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:     "transferctl",
		Version: version,
		Short:   "Canister transfer planning tool",
		Long: `transferctl runs the canister transfer engine against a YAML snapshot
of a batch and prints the resulting cycle plan without touching a database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.policyPath, "policy", "", "Policy YAML file (defaults are used when empty)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newPlanCommand(opts))
	root.AddCommand(newPolicyCommand(opts))
	return root
}
