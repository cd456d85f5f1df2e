package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"stockvue/internal/delivery/http"
	"stockvue/internal/repository"
	"stockvue/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the stockvue HTTP API",
	Run:   Start,
}

// services wires the repository and service layers on top of appDep.
func services(ctx context.Context, appDep *AppDependency) *service.Service {
	repo := repository.NewRepository(appDep.cfg, appDep.cache, appDep.store, appDep.log)
	return service.NewService(ctx, appDep.cfg, appDep.log, repo, appDep.cache, appDep.scheduler)
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	svc := services(ctx, appDep)
	svc.WatchlistService.Subscribe(func(ev service.ChangeEvent) {
		appDep.log.Info("Watchlist changed", zap.String("op", string(ev.Op)), zap.String("symbol", ev.Symbol))
	})
	svc.SavedPredictionService.Subscribe(func(ev service.ChangeEvent) {
		appDep.log.Info("Saved predictions changed", zap.String("op", string(ev.Op)), zap.String("symbol", ev.Symbol), zap.Int("index", ev.Index))
	})

	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, svc, appDep.log)

	appDep.scheduler.Start()

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	<-appDep.scheduler.Stop().Done()

	if err := apiServer.Stop(); err != nil {
		log.Printf("Failed to stop HTTP server: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
