package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahofmann/scriptroom/internal/client"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Stream job status changes from the server",
	Long: `Subscribe to the server's websocket event stream and print every job
status change as it happens. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		return c.WatchEvents(cmd.Context(), func(e client.JobEvent) error {
			fmt.Printf("%s\t%s\n", e.RequestID, e.Status)
			return nil
		})
	},
}
