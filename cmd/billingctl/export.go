package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/tiffin-api/internal/bootstrap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exporta el libro de facturas a Excel",
	Long: `Escribe un .xlsx con las facturas del estado indicado y su total.

Ejemplo:
  billingctl export --status pending --out pendientes.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, _ := cmd.Flags().GetString("status")
		out, _ := cmd.Flags().GetString("out")
		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			data, filename, err := c.Lifecycle.ExportLedger(cmd.Context(), status)
			if err != nil {
				return err
			}
			if out == "" {
				out = filename
			}
			return writeFile(cmd, out, data)
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("status", "all", "pending | paid | all")
	exportCmd.Flags().String("out", "", "Ruta del archivo (por defecto el nombre sugerido)")
}
