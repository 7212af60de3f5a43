package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/diillson/maternity-reports-go/internal/adapter/driven/config"
	"github.com/diillson/maternity-reports-go/internal/adapter/driving/lambdafn"
	"github.com/diillson/maternity-reports-go/internal/bootstrap"
	"github.com/diillson/maternity-reports-go/pkg/logger"
)

func main() {
	ctx := context.Background()

	// Configuração só por variáveis MATERNITY_*; o arquivo é opcional.
	cfg, err := config.NewConfigRepository().Load(os.Getenv("MATERNITY_CONFIG_FILE"), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// A função é o destino do deliverer remoto; aqui a entrega é sempre local.
	cfg.Trigger.Deliverer = "local"

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c, err := bootstrap.NewContainer(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("building container")
	}

	lambda.Start(lambdafn.NewHandler(c.Delivery, log))
}
