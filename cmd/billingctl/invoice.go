package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/bootstrap"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/pkg/money"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Calcula facturas detalladas (mensual o diaria)",
}

var invoiceMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Factura mensual de un cliente",
	Long: `Calcula la factura del mes con el desglose día por día.

Ejemplos:
  billingctl invoice monthly --customer <id> --year 2026 --month 2
  billingctl invoice monthly --customer <id> --year 2026 --month 2 --pdf feb.pdf
  billingctl invoice monthly --customer <id> --year 2026 --month 2 --save`,
	RunE: runInvoiceMonthly,
}

var invoiceDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Factura de un día para un cliente",
	RunE:  runInvoiceDaily,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(invoiceMonthlyCmd, invoiceDailyCmd)

	invoiceCmd.PersistentFlags().String("customer", "", "ID del cliente")
	invoiceCmd.PersistentFlags().String("pdf", "", "Escribe el PDF en esta ruta en lugar de imprimir el desglose")
	invoiceCmd.PersistentFlags().Bool("json", false, "Salida en JSON")
	_ = invoiceCmd.MarkPersistentFlagRequired("customer")

	invoiceMonthlyCmd.Flags().Int("year", 0, "Año")
	invoiceMonthlyCmd.Flags().Int("month", 0, "Mes (1-12)")
	invoiceMonthlyCmd.Flags().Bool("save", false, "Guarda la factura como pendiente")
	_ = invoiceMonthlyCmd.MarkFlagRequired("year")
	_ = invoiceMonthlyCmd.MarkFlagRequired("month")

	invoiceDailyCmd.Flags().String("date", "", "Fecha (YYYY-MM-DD)")
	_ = invoiceDailyCmd.MarkFlagRequired("date")
}

func runInvoiceMonthly(cmd *cobra.Command, _ []string) error {
	customerID, _ := cmd.Flags().GetString("customer")
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	pdfPath, _ := cmd.Flags().GetString("pdf")
	save, _ := cmd.Flags().GetBool("save")

	return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
		ctx := cmd.Context()
		if pdfPath != "" {
			data, _, err := c.Invoices.InvoicePDF(ctx, customerID, year, month)
			if err != nil {
				return err
			}
			return writeFile(cmd, pdfPath, data)
		}

		inv, err := c.Invoices.GenerateMonthlyInvoice(ctx, customerID, year, month)
		if err != nil {
			return err
		}
		if err := printInvoice(cmd, inv); err != nil {
			return err
		}
		if !save {
			return nil
		}
		saved, err := c.Invoices.SaveAsPending(ctx, customerID, year, month, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nFactura pendiente guardada: %s (%s)\n", saved.ID, money.Format(saved.Amount))
		return nil
	})
}

func runInvoiceDaily(cmd *cobra.Command, _ []string) error {
	customerID, _ := cmd.Flags().GetString("customer")
	dateStr, _ := cmd.Flags().GetString("date")
	pdfPath, _ := cmd.Flags().GetString("pdf")

	date, err := billing.ParseDate(dateStr)
	if err != nil {
		return err
	}

	return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
		if pdfPath != "" {
			data, _, err := c.Invoices.DailyInvoicePDF(cmd.Context(), customerID, date)
			if err != nil {
				return err
			}
			return writeFile(cmd, pdfPath, data)
		}
		inv, err := c.Invoices.GenerateDailyInvoice(cmd.Context(), customerID, date)
		if err != nil {
			return err
		}
		return printInvoice(cmd, inv)
	})
}

func printInvoice(cmd *cobra.Command, inv *billing.ItemizedInvoice) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, dto.FromItemized(inv))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s - %s\n\n", inv.Customer.Name, inv.PeriodLabel)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Fecha\tDesayuno\tAlmuerzo\tCena")
	for _, d := range inv.Days {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Date.Format(billing.DateLayout), d.Breakfast, d.Lunch, d.Dinner)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printSummary(out, inv)
	return nil
}

func printSummary(out io.Writer, inv *billing.ItemizedInvoice) {
	s := inv.Summary
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw)
	if inv.PeriodType == billing.PeriodMonthly {
		fmt.Fprintf(tw, "Suscripción (%d días x %s)\t%s\t\n", s.DaysInMonth, money.Format(s.DailyAmount), money.Format(s.SubscriptionTotal))
	} else {
		fmt.Fprintf(tw, "Suscripción del día\t%s\t\n", money.Format(s.SubscriptionTotal))
	}
	fmt.Fprintf(tw, "Extras desayuno\t%s\t\n", money.Format(s.BreakfastTotal))
	fmt.Fprintf(tw, "Extras almuerzo\t%s\t\n", money.Format(s.LunchTotal))
	fmt.Fprintf(tw, "Extras cena\t%s\t\n", money.Format(s.DinnerTotal))
	if inv.PeriodType == billing.PeriodMonthly {
		fmt.Fprintf(tw, "Anticipos\t-%s\t\n", money.Format(s.TotalAdvance))
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", money.Format(s.GrandTotal))
	_ = tw.Flush()
}

func writeFile(cmd *cobra.Command, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Escrito %s (%d bytes)\n", path, len(data))
	return nil
}
