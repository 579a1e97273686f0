// Command billingctl administra el servicio de facturación desde la terminal:
// migraciones, escaneo de cobros, facturas, cobros y administradores.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // zona horaria de facturación en imágenes sin tzdata

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // .env opcional

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
