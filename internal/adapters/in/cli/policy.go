package cli

import (
	"fmt"

	"canistertransfer/internal/core/domain/services"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPolicyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective allocation policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := services.LoadPolicy(opts.policyPath)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(policy)
			if err != nil {
				return fmt.Errorf("encode policy: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
