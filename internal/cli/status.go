package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahofmann/scriptroom/internal/client"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status <request_id>",
	Short: "Show the state of a script request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		id := args[0]

		if statusWatch {
			result, err := runWatch(c, id)
			if err != nil {
				return err
			}
			fmt.Println(result.Result)
			return nil
		}

		result, err := c.GetResult(cmd.Context(), id)
		if errors.Is(err, client.ErrNotFound) {
			exitWithError("unknown request id %s", id)
		}
		if err != nil {
			return err
		}

		switch result.Status {
		case "completed":
			fmt.Println(result.Result)
		case "failed":
			exitWithError("request failed: %s", result.Error)
		default:
			fmt.Printf("[%s]\n", result.Status)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "wait until the request finishes")
}
