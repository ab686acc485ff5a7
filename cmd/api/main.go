package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/cradoe/sellerverify/internal/app"
	"github.com/cradoe/sellerverify/internal/seeder"
	"github.com/cradoe/sellerverify/internal/version"
	"github.com/cradoe/sellerverify/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")
	seed := flag.Bool("seed", false, "seed the admin account and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	application, err := app.NewApplication(logger)
	if err != nil {
		return err
	}
	defer application.Close()

	if *seed {
		return seeder.New(application.DB.User(), logger).Run(context.Background(), seeder.AdminAccount{
			Email:    application.Config.Seed.AdminEmail,
			Password: application.Config.Seed.AdminPassword,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wk := worker.New(&worker.Worker{
		KafkaStream: application.Kafka,
		Users:       application.DB.User(),
		Mailer:      application.Mailer,
		Helper:      application.Helper,
		Logger:      logger,
		Ctx:         ctx,
	})

	application.Background(wk.ReviewNotificationWorker)

	err = application.ServeHTTP(ctx)

	// the worker only returns once ctx is done, and must be joined before Close releases Kafka
	stop()
	application.WG.Wait()

	return err
}
