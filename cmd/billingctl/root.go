package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tiffin-api/internal/bootstrap"
	"github.com/jhoicas/tiffin-api/pkg/config"
	"github.com/jhoicas/tiffin-api/pkg/logger"
)

var version = "1.0.0"

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "billingctl",
	Short: "Administración del servicio de facturación de comidas",
	Long: `billingctl opera sobre la misma base de datos que la API:
aplica migraciones, escanea cobros del mes anterior, calcula facturas,
registra cobros y crea administradores.

La configuración se lee de variables de entorno (y .env si existe).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		level := cfg.Log.Level
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		log = logger.New(logger.Config{Env: "development", Level: level, Output: cmd.ErrOrStderr()})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log detallado")
}

// withContainer arma los casos de uso y los libera al terminar fn.
func withContainer(ctx context.Context, fn func(*bootstrap.Container) error) error {
	c, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
