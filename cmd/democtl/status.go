package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <account-id>",
		Short: "Show the onboarding flags of a connected account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := root.client().CheckAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "account           %s%s\n", st.AccountID, fallbackTag(st.Envelope))
			fmt.Fprintf(out, "details_submitted %t\n", st.DetailsSubmitted)
			fmt.Fprintf(out, "charges_enabled   %t\n", st.ChargesEnabled)
			fmt.Fprintf(out, "payouts_enabled   %t\n", st.PayoutsEnabled)
			fmt.Fprintf(out, "dashboard_link    %t\n", st.DashboardLinkAvailable)
			fmt.Fprintf(out, "active            %t\n", st.Active)
			return nil
		},
	}
}
