package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SubmitCommand represents the share submission command
type SubmitCommand struct {
	sessionID string
	orgID     string
}

// NewSubmitCommand creates the submit command
func NewSubmitCommand() *cobra.Command {
	sc := &SubmitCommand{}

	cmd := &cobra.Command{
		Use:   "submit <value>",
		Short: "Submit an organization's metric value to a session",
		Long: `Submit one organization's private metric value. The value is scaled
to fixed point, split into threshold shares, and recorded on the session.
Each organization may submit exactly once.`,
		Example: `  smpc submit 98.6 --session 4f7c... --org clinic-a`,
		Args:    cobra.ExactArgs(1),
		RunE:    sc.run,
	}

	cmd.Flags().StringVarP(&sc.sessionID, "session", "s", "", "Session id")
	cmd.Flags().StringVarP(&sc.orgID, "org", "o", "", "Submitting organization id")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func (sc *SubmitCommand) run(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid metric value %q: %w", args[0], err)
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}

	if err := eng.Submit(sc.sessionID, sc.orgID, value); err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Println("✓ Value submitted")
	fmt.Printf("  Session: %s\n", sc.sessionID)
	fmt.Printf("  Org:     %s\n", sc.orgID)

	return nil
}
