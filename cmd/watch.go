package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockvue/internal/dto"
	"stockvue/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch SYMBOL",
	Short: "Follow one symbol and log its intraday quotes on every refresh",
	Args:  cobra.ExactArgs(1),
	Run:   Watch,
}

func Watch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	symbol := utils.NormalizeSymbol(args[0])
	session := services(ctx, appDep).StockDataService.NewSession()
	defer session.Close()

	session.OnUpdate(func(st dto.StockDataState) {
		fields := []zap.Field{
			zap.String("symbol", st.Symbol),
			zap.Int("chart_points", len(st.ChartData)),
			zap.Int("intraday_points", len(st.Intraday)),
		}
		if n := len(st.Intraday); n > 0 {
			fields = append(fields, zap.String("last_time", st.Intraday[n-1].Time), zap.Float64("last_price", st.Intraday[n-1].Price))
		}
		if st.Error != "" {
			fields = append(fields, zap.String("error", st.Error))
		}
		appDep.log.Info("Stock data updated", fields...)
	})

	if _, err := session.Fetch(ctx, symbol); err != nil {
		appDep.log.Warn("Initial fetch failed", zap.String("symbol", symbol), zap.Error(err))
	}

	if err := session.StartAutoRefresh(); err != nil {
		log.Fatalf("Failed to start intraday refresh: %v", err)
	}
	appDep.scheduler.Start()
	defer func() { <-appDep.scheduler.Stop().Done() }()

	<-ctx.Done()
}
