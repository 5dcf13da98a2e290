package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CreateCommand represents the session creation command
type CreateCommand struct {
	computationType string
	orgs            []string
	threshold       int
}

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	cc := &CreateCommand{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new secure computation session",
		Long: `Create a new session for jointly computing an aggregate statistic
over private per-organization metric values.

Each participating organization later submits its value with 'smpc submit'.
Once at least threshold organizations have submitted, 'smpc compute'
produces the aggregate without ever reconstructing an individual value.`,
		Example: `  # Sum over three clinics, any two sufficient
  smpc create --type sum --orgs clinic-a,clinic-b,clinic-c --threshold 2

  # Population variance across five hospitals
  smpc create --type variance --orgs h1,h2,h3,h4,h5 --threshold 3`,
		RunE: cc.run,
	}

	cmd.Flags().StringVarP(&cc.computationType, "type", "t", "sum", "Statistic to compute (sum, mean, variance)")
	cmd.Flags().StringSliceVarP(&cc.orgs, "orgs", "o", nil, "Participating organization ids (comma separated)")
	cmd.Flags().IntVarP(&cc.threshold, "threshold", "k", 2, "Minimum submissions required to compute")
	_ = cmd.MarkFlagRequired("orgs")

	return cmd
}

func (cc *CreateCommand) run(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	id, err := eng.Create(cc.computationType, cc.orgs, cc.threshold)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Println("✓ Session created")
	fmt.Printf("  ID:           %s\n", id)
	fmt.Printf("  Type:         %s\n", cc.computationType)
	fmt.Printf("  Participants: %s\n", strings.Join(cc.orgs, ", "))
	fmt.Printf("  Threshold:    %d of %d\n", cc.threshold, len(cc.orgs))

	return nil
}
