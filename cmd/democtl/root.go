package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/foodnow-connect-demo/internal/client"
)

type rootOptions struct {
	apiURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "democtl",
		Short: "Drive the FoodNow Connect demo API from the terminal",
		Long: `democtl walks the demo checkout the way the browser does: it creates the
payment, then splits it between the restaurant and the courier.

The API address defaults to $DEMO_API_URL or http://localhost:8080.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := os.Getenv("DEMO_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", defaultURL, "Base URL of the dashboard API")

	cmd.AddCommand(newRunCmd(opts), newStatusCmd(opts), newLogsCmd(opts))
	return cmd
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.apiURL)
}
