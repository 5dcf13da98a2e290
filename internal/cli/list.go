package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListCommand represents the session listing command
type ListCommand struct {
	orgID string
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	lc := &ListCommand{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List computation sessions",
		Example: `  # All sessions
  smpc list

  # Sessions a specific organization participates in
  smpc list --org clinic-a`,
		RunE: lc.run,
	}

	cmd.Flags().StringVarP(&lc.orgID, "org", "o", "", "Filter by participating organization")

	return cmd
}

func (lc *ListCommand) run(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	summaries, err := eng.List(lc.orgID)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Printf("%-38s %-10s %-12s %s\n", "ID", "TYPE", "STATUS", "CREATED")
	for _, s := range summaries {
		fmt.Printf("%-38s %-10s %-12s %s\n",
			s.ID, s.Type, s.Status, s.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}
