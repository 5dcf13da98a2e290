package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/privamed/smpc/pkg/session"
)

// ResultCommand represents the result query command
type ResultCommand struct {
	sessionID string
}

// NewResultCommand creates the result command
func NewResultCommand() *cobra.Command {
	rc := &ResultCommand{}

	cmd := &cobra.Command{
		Use:     "result",
		Short:   "Show the result or status of a session",
		Example: `  smpc result --session 4f7c...`,
		RunE:    rc.run,
	}

	cmd.Flags().StringVarP(&rc.sessionID, "session", "s", "", "Session id")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func (rc *ResultCommand) run(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	view, err := eng.GetResult(rc.sessionID)
	if err != nil {
		return err
	}

	switch view.Status {
	case session.StatusComputed:
		color.New(color.FgGreen, color.Bold).Println("✓ Computed")
		fmt.Printf("  Operation:       %s\n", view.Result.Operation)
		fmt.Printf("  Value:           %g\n", view.Result.Value)
		fmt.Printf("  Security method: %s\n", view.Result.SecurityMethod)
	case session.StatusFailed:
		color.New(color.FgRed, color.Bold).Println("✗ Failed")
		fmt.Printf("  Reason: %s\n", view.FailureReason)
	default:
		color.New(color.FgYellow, color.Bold).Println("… Pending")
		fmt.Printf("  Status: %s\n", view.Status)
	}

	return nil
}
