package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ahofmann/scriptroom/internal/client"
)

var (
	submitTopic string
	submitStyle string
	submitKey   string
	submitWatch bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a script request",
	Long: `Submit a script generation request and print the request id.

The API key can be passed with --key, via the SCRIPTROOM_API_KEY env var,
or entered interactively. Use --watch to follow the request until it
finishes.`,
	Example: `  scriptroom submit --topic "urban beekeeping" --style documentary
  scriptroom submit --topic "sourdough fails" --style comedy --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubmit(cmd.Context())
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitTopic, "topic", "", "script topic (required)")
	submitCmd.Flags().StringVar(&submitStyle, "style", "", "script style (required)")
	submitCmd.Flags().StringVar(&submitKey, "key", "", "provider API key")
	submitCmd.Flags().BoolVar(&submitWatch, "watch", false, "wait for the script and print it")
	_ = submitCmd.MarkFlagRequired("topic")
	_ = submitCmd.MarkFlagRequired("style")
}

func runSubmit(ctx context.Context) error {
	key := submitKey
	if key == "" {
		key = os.Getenv("SCRIPTROOM_API_KEY")
	}
	if key == "" {
		var err error
		key, err = promptForKey()
		if err != nil {
			return err
		}
	}

	c := client.New(serverURL)
	id, err := c.Submit(ctx, client.SubmitInput{
		Topic:  submitTopic,
		Style:  submitStyle,
		APIKey: key,
	})
	if err != nil {
		return err
	}

	if !submitWatch {
		fmt.Println(id)
		fmt.Fprintf(os.Stderr, "Use 'scriptroom status %s' to check progress.\n", id)
		return nil
	}

	result, err := runWatch(c, id)
	if err != nil {
		return err
	}
	fmt.Println(result.Result)
	return nil
}

// promptForKey reads the API key without echoing it.
func promptForKey() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no API key given: pass --key or set SCRIPTROOM_API_KEY")
	}
	fmt.Fprint(os.Stderr, "API key: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("empty API key")
	}
	return key, nil
}
