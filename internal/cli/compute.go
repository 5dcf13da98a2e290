package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ComputeCommand represents the aggregation command
type ComputeCommand struct {
	sessionID string
}

// NewComputeCommand creates the compute command
func NewComputeCommand() *cobra.Command {
	cc := &ComputeCommand{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Run the secure aggregation for a session",
		Long: `Combine the submitted shares and reconstruct only the aggregate
statistic. Requires at least threshold submissions; below quorum the
session fails rather than producing a partial result. Computing an
already-computed session returns the cached result.`,
		Example: `  smpc compute --session 4f7c...`,
		RunE:    cc.run,
	}

	cmd.Flags().StringVarP(&cc.sessionID, "session", "s", "", "Session id")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func (cc *ComputeCommand) run(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	result, err := eng.Compute(cc.sessionID)
	if err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Println("✓ Computation complete")
	fmt.Printf("  Operation:       %s\n", result.Operation)
	fmt.Printf("  Value:           %g\n", result.Value)
	fmt.Printf("  Security method: %s\n", result.SecurityMethod)
	fmt.Printf("  Computed at:     %s\n", result.ComputedAt.Format("2006-01-02 15:04:05 MST"))

	return nil
}
