package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tiffin-api/internal/bootstrap"
	"github.com/jhoicas/tiffin-api/pkg/money"
)

var payCmd = &cobra.Command{
	Use:   "pay <invoice-id>",
	Short: "Registra el cobro de una factura pendiente",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")
		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			inv, err := c.Lifecycle.PayInvoice(cmd.Context(), args[0], notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Factura %s de %s (%s) pagada: %s\n",
				inv.ID, inv.CustomerName, inv.PeriodLabel, money.Format(inv.Amount))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(payCmd)
	payCmd.Flags().String("notes", "", "Medio o referencia del pago (requerido)")
	_ = payCmd.MarkFlagRequired("notes")
}
