package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/services"

	"github.com/spf13/cobra"
)

func newPlanCommand(opts *rootOptions) *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the transfer engine on a fixture and print the cycle plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := services.LoadPolicy(opts.policyPath)
			if err != nil {
				return err
			}
			fixture, err := LoadFixture(fixturePath)
			if err != nil {
				return err
			}
			return runPlan(cmd, policy, fixture)
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "Batch snapshot in YAML")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func runPlan(cmd *cobra.Command, policy services.Policy, fixture Fixture) error {
	demands, err := fixture.demands()
	if err != nil {
		return err
	}
	pool, err := fixture.pool()
	if err != nil {
		return err
	}
	fleet, err := fixture.fleet()
	if err != nil {
		return err
	}

	planner := services.NewTransferPlanner(policy, newFixtureCSR(fixture.CSR))
	result, err := planner.Plan(cmd.Context(), fixture.System, demands, pool, fleet)

	w := cmd.OutOrStdout()
	if errors.Is(err, services.ErrNoTrolleyAvailable) {
		_, _ = warnColor.Fprintf(w, "Result: NoTrolleyAvailable (%v)\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	printPlan(w, result)
	return nil
}

func printPlan(w io.Writer, result services.PlanResult) {
	if len(result.Schedule.Assignments) == 0 {
		_, _ = warnColor.Fprintln(w, "Result: NoPendingTransfers")
		printDemands(w, "Unassigned", result.Allocation.Unassigned)
		printDemands(w, "Deferred", result.Allocation.Deferred)
		return
	}

	_, _ = okColor.Fprintf(w, "Result: Recommended (%d canisters in %d cycles)\n",
		len(result.Schedule.Assignments), len(result.Schedule.Cycles))
	_, _ = fmt.Fprintf(w, "Trolleys: %d normal, %d elevator\n",
		result.Requirement.NormalTrolleys, result.Requirement.LiftTrolleys)

	for _, cycle := range result.Schedule.Cycles {
		_, _ = headerColor.Fprintf(w, "\nCycle %d\n", cycle.ID)
		_, _ = fmt.Fprintf(w, "  %-10s %-8s %-9s %-10s %-6s %-8s %-6s\n",
			"CANISTER", "TYPE", "TROLLEY", "LOCATION", "DEST", "KIND", "SLOT")
		for _, a := range result.Schedule.Assignments {
			if a.Cycle != cycle.ID {
				continue
			}
			_, _ = fmt.Fprintf(w, "  %-10d %-8s %-9d %-10d %-6d %-8s %-6d\n",
				a.Canister, a.CanisterType, a.TrolleyDevice, a.TrolleyLocation,
				a.Destination.Device, a.Destination.Kind, a.Destination.Location)
		}
		for _, device := range cycle.Devices {
			info := cycle.Info[device]
			_, _ = fmt.Fprintf(w, "  device %d: %d to cart, %d from cart\n", device, info.ToCartCount, info.FromCartCount)
		}
	}

	printDemands(w, "Unassigned", result.Allocation.Unassigned)
	printDemands(w, "Deferred", result.Allocation.Deferred)
}

func printDemands(w io.Writer, label string, demands []canister.Demand) {
	if len(demands) == 0 {
		return
	}
	ids := make([]int64, 0, len(demands))
	for _, d := range demands {
		ids = append(ids, int64(d.CanisterID()))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	_, _ = warnColor.Fprintf(w, "%s: %v\n", label, ids)
}
