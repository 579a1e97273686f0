package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tiffin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tiffin-api/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica o revierte el esquema de PostgreSQL",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica las migraciones pendientes",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMigration(func(m *postgres.Migrator) error { return m.Up() })
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte todas las migraciones (borra los datos)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("migrate down borra todas las tablas; confirme con --yes")
		}
		return runMigration(func(m *postgres.Migrator) error { return m.Down() })
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	migrateDownCmd.Flags().Bool("yes", false, "Confirma el borrado del esquema")
}

func runMigration(fn func(*postgres.Migrator) error) error {
	if cfg.Storage.Driver != config.StoragePostgres {
		return fmt.Errorf("migraciones solo aplican con STORAGE_DRIVER=postgres")
	}
	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()
	return fn(m)
}
