package cli

import (
	"fmt"

	"github.com/printease/backend/internal/infrastructure/auth"
	"github.com/printease/backend/internal/infrastructure/payment"
	"github.com/spf13/cobra"
)

func newSignCommand() *cobra.Command {
	var secret, orderID, paymentID string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a test payment confirmation",
		Long: `sign prints the signature the gateway would send for a payment, for
exercising POST /orders/commit against a development server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verifier, err := payment.NewSignatureVerifier(&payment.GatewayConfig{KeyID: "printctl", KeySecret: secret})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), verifier.Sign(orderID, paymentID))
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "key-secret", "", "Gateway key secret (payment.key_secret)")
	cmd.Flags().StringVar(&orderID, "order", "", "Gateway order id")
	cmd.Flags().StringVar(&paymentID, "payment", "", "Payment id")
	_ = cmd.MarkFlagRequired("key-secret")
	_ = cmd.MarkFlagRequired("order")
	_ = cmd.MarkFlagRequired("payment")
	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password for admin.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
