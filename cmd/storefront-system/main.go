package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront-system/internal/cart"
	"storefront-system/internal/config"
	"storefront-system/internal/connections/database"
	"storefront-system/internal/connections/rabbitmq"
	"storefront-system/internal/logger"
	"storefront-system/internal/notify"
	"storefront-system/internal/payment"
	"storefront-system/internal/storefront"
)

func main() {
	mode := "api"
	if len(os.Args) > 1 && os.Args[1] != "" && os.Args[1][0] != '-' {
		mode = os.Args[1]
		os.Args = append(os.Args[:1], os.Args[2:]...)
	}

	option := config.NewOptions()
	option.ParseFlags()

	lg, err := logger.NewLogger(option.LogLevel())
	if err != nil {
		log.Fatalln(err)
	}
	defer lg.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch mode {
	case "api":
		if err := runAPI(ctx, option, lg); err != nil {
			lg.Error("fatal", zap.Error(err))
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotifier(ctx, option, lg); err != nil {
			lg.Error("fatal", zap.Error(err))
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: storefront-system [api|notification-subscriber] [flags]")
		os.Exit(2)
	}
}

func runAPI(ctx context.Context, option *config.Options, lg *logger.Logger) error {
	if option.DataBaseDSN() == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}
	db, err := database.Connect(ctx, option.DataBaseDSN())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()
	if err := database.Migrate(db, option.MigrationsDir()); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	lg.Info("postgres connected")

	keeper, err := cart.NewSQLiteKeeper(option.CartDBPath())
	if err != nil {
		return fmt.Errorf("cart keeper: %w", err)
	}
	defer keeper.Close()

	var rmq *rabbitmq.Client
	if option.RabbitURL() != "" {
		rmq, err = rabbitmq.Dial(option.RabbitURL())
		if err != nil {
			return fmt.Errorf("rabbitmq connect: %w", err)
		}
		defer rmq.Close()
		lg.Info("rabbitmq connected")
	} else {
		lg.Warn("rabbitmq url not set, order events disabled")
	}

	var provider payment.Provider
	if option.StripeKey() != "" {
		provider, err = payment.NewStripeProvider(option.StripeKey(), option.Currency())
		if err != nil {
			return fmt.Errorf("stripe init: %w", err)
		}
	} else {
		lg.Warn("stripe key not set, online payments disabled")
	}

	return storefront.Run(ctx, option.RunAddr(), storefront.Deps{
		DB:       db,
		Keeper:   keeper,
		Rabbit:   rmq,
		Provider: provider,
		Log:      lg,
	})
}

func runNotifier(ctx context.Context, option *config.Options, lg *logger.Logger) error {
	if option.RabbitURL() == "" {
		return fmt.Errorf("RABBITMQ_URL is required for notification-subscriber")
	}
	rmq, err := rabbitmq.Dial(option.RabbitURL())
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer rmq.Close()

	return notify.NewWorker(rmq, lg, 1).Run(ctx)
}
