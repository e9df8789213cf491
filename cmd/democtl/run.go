package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jcmexdev/foodnow-connect-demo/internal/client"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/infra/httpx"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		amount            int64
		paymentMethodMode string
		restaurantAccount string
		courierAccount    string
		confirmations     int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create a payment and split it into restaurant and courier transfers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := root.client()
			out := cmd.OutOrStdout()

			payReq := httpx.CreatePaymentRequest{PaymentMethodMode: paymentMethodMode}
			if amount > 0 {
				payReq.Amount = &amount
			}
			pay, err := c.CreatePayment(ctx, payReq)
			if err != nil {
				return fmt.Errorf("create payment: %w", err)
			}
			b := pay.Breakdown
			fmt.Fprintf(out, "payment   %s%s\n", pay.PaymentIntentID, fallbackTag(pay.Envelope))
			fmt.Fprintf(out, "breakdown total=%d platform=%d restaurant=%d courier=%d\n", b.Total, b.PlatformFee, b.RestaurantAmount, b.CourierAmount)

			if restaurantAccount == "" || courierAccount == "" {
				accounts, err := c.DemoAccounts(ctx)
				if err != nil {
					return fmt.Errorf("load demo accounts: %w", err)
				}
				if restaurantAccount == "" {
					restaurantAccount = accounts.RestaurantAccountID
				}
				if courierAccount == "" {
					courierAccount = accounts.CourierAccountID
				}
			}

			trigger := client.NewTransferTrigger(c, httpx.CreateTransfersRequest{
				PaymentIntentID:     pay.PaymentIntentID,
				RestaurantAccountID: restaurantAccount,
				CourierAccountID:    courierAccount,
				RestaurantAmount:    b.RestaurantAmount,
				CourierAmount:       b.CourierAmount,
				OrderID:             pay.OrderID,
			}, uuid.NewString())

			// Each confirmation signal fires the trigger; only the first sends.
			var tr *httpx.CreateTransfersResponse
			for i := 0; i < max(confirmations, 1); i++ {
				resp, fired, err := trigger.Fire(ctx)
				if err != nil {
					return fmt.Errorf("create transfers: %w", err)
				}
				if fired {
					tr = resp
				}
			}

			fmt.Fprintf(out, "transfer  restaurant %s -> %s\n", tr.RestaurantTransferID, restaurantAccount)
			fmt.Fprintf(out, "transfer  courier    %s -> %s\n", tr.CourierTransferID, courierAccount)
			if tr.Fallback {
				fmt.Fprintf(out, "simulated %s\n", tr.Message)
			}
			if tr.Partial {
				fmt.Fprintf(out, "partial   real transfer %s was created\n", tr.PartialTransferID)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "Order total in cents (ignored under fixed pricing)")
	cmd.Flags().StringVar(&paymentMethodMode, "mode", "card", "Payment method mode: card or automatic")
	cmd.Flags().StringVar(&restaurantAccount, "restaurant", "", "Restaurant connected account (default: registry)")
	cmd.Flags().StringVar(&courierAccount, "courier", "", "Courier connected account (default: registry)")
	cmd.Flags().IntVar(&confirmations, "confirmations", 2, "Number of confirmation signals to deliver to the transfer trigger")
	return cmd
}

func fallbackTag(e httpx.Envelope) string {
	if e.Fallback {
		return " (fallback)"
	}
	return ""
}
