package main

import (
	"fmt"
	"os"

	"github.com/diillson/maternity-reports-go/internal/adapter/driving/cli"
	"github.com/diillson/maternity-reports-go/pkg/console"
)

func main() {
	// Inicializa o aplicativo CLI; a configuração e os adaptadores são
	// montados por cada comando.
	app := cli.NewCLIApp(console.NewConsole())

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
