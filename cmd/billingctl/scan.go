package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tiffin-api/internal/bootstrap"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/pkg/money"
)

var scanCmd = &cobra.Command{
	Use:   "scan-dues",
	Short: "Genera facturas pendientes del mes anterior",
	Long: `Recorre todos los clientes y crea una factura pendiente por cada uno
que tenga deuda en el período y aún no esté facturado. Sin --period se usa el mes
anterior al actual en la zona horaria de facturación.

Ejemplos:
  billingctl scan-dues
  billingctl scan-dues --period 2026-02 --json`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("period", "", "Mes a escanear (YYYY-MM)")
	scanCmd.Flags().Bool("json", false, "Salida en JSON")
}

func runScan(cmd *cobra.Command, _ []string) error {
	periodStr, _ := cmd.Flags().GetString("period")
	asJSON, _ := cmd.Flags().GetBool("json")

	return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
		period := c.Scanner.TargetPeriod()
		if periodStr != "" {
			p, err := billing.ParsePeriod(periodStr)
			if err != nil {
				return err
			}
			period = p
		}

		result, err := c.Scanner.ScanPeriod(cmd.Context(), period)
		if err != nil {
			return err
		}
		resp := result.Response()
		if asJSON {
			return printJSON(cmd, resp)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Período %s: %d facturas creadas, %d omitidos\n\n", period.Label(), resp.CreatedCount, len(resp.Skipped))
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, inv := range resp.Created {
			fmt.Fprintf(tw, "+\t%s\t%s\t%s\n", inv.CustomerName, money.Format(inv.Amount), inv.ID)
		}
		for _, s := range resp.Skipped {
			fmt.Fprintf(tw, "-\t%s\t%s\t\n", s.CustomerName, s.Reason)
		}
		return tw.Flush()
	})
}
