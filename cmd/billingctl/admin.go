package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/bootstrap"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Gestión de administradores",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crea un administrador con usuario y contraseña",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var in dto.CreateAdminRequest
		in.Username, _ = cmd.Flags().GetString("username")
		in.Password, _ = cmd.Flags().GetString("password")
		in.Name, _ = cmd.Flags().GetString("name")

		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			u, err := c.Auth.CreateAdmin(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Administrador %s creado (%s)\n", u.Username, u.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)
	adminCreateCmd.Flags().String("username", "", "Usuario")
	adminCreateCmd.Flags().String("password", "", "Contraseña (mínimo 8 caracteres)")
	adminCreateCmd.Flags().String("name", "", "Nombre visible")
	_ = adminCreateCmd.MarkFlagRequired("username")
	_ = adminCreateCmd.MarkFlagRequired("password")
}
