package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newLogsCmd(root *rootOptions) *cobra.Command {
	var clearLogs bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the demo event log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := root.client()
			out := cmd.OutOrStdout()

			if clearLogs {
				if err := c.ClearLogs(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "logs cleared")
				return nil
			}

			logs, err := c.Logs(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range logs.Data {
				line := fmt.Sprintf("%s [%s] %s", e.Timestamp.Format("15:04:05.000"), e.Level, e.Message)
				if len(e.Data) > 0 {
					data, _ := json.Marshal(e.Data)
					line += " " + string(data)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearLogs, "clear", false, "Clear the log instead of printing it")
	return cmd
}
