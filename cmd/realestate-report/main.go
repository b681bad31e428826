package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diillson/kr-realestate-report/internal/adapter/driven/config"
	"github.com/diillson/kr-realestate-report/internal/adapter/driven/export"
	"github.com/diillson/kr-realestate-report/internal/adapter/driven/publicdata"
	"github.com/diillson/kr-realestate-report/internal/adapter/driven/region"
	"github.com/diillson/kr-realestate-report/internal/adapter/driven/storage"
	"github.com/diillson/kr-realestate-report/internal/adapter/driving/cli"
	"github.com/diillson/kr-realestate-report/internal/application/pagination"
	"github.com/diillson/kr-realestate-report/internal/application/usecase"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
	"github.com/diillson/kr-realestate-report/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version, config.NewConfigRepository())
	app.SetUseCaseBuilder(buildUseCase)

	err := app.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(types.ExitCode(err))
	}
}

// buildUseCase inicializa os repositórios e o caso de uso a partir da configuração efetiva.
func buildUseCase(cfg *types.Config, args *types.CLIArgs, console types.ConsoleInterface) (*usecase.ReportUseCase, error) {
	client := publicdata.NewClient(time.Duration(cfg.HTTPTimeout), console)
	creds := cfg.Credentials

	fetchers := usecase.Fetchers{
		AptTrade:   publicdata.NewAptTradeFetcher(client, cfg.Endpoints.AptTrade, creds.PublicDataKey),
		Population: publicdata.NewPopulationFetcher(client, cfg.Endpoints.Population, creds.PopulationKey),
		MolitStats: publicdata.NewMolitStatsFetcher(client, cfg.Endpoints.MolitStats, creds.MolitStatsKey),
		PriceIndex: publicdata.NewPriceIndexFetcher(client, cfg.Endpoints.PriceIndex, creds.REBKey),
	}

	var uploadRepo repository.UploadRepository
	if args.S3URI != "" {
		uploadRepo = storage.NewS3Repository(args.AWSProfile, console)
	}

	retry := pagination.DefaultRetryPolicy()
	if cfg.RetryAttempts > 0 {
		retry.Attempts = cfg.RetryAttempts
	}
	if cfg.RetryDelay > 0 {
		retry.Delay = time.Duration(cfg.RetryDelay)
	}

	return usecase.NewReportUseCase(
		fetchers,
		export.NewExportRepository(cfg.PDFFont),
		region.NewRegionRepository(cfg.RegionCodeFile, cfg.PriceCodeFile),
		uploadRepo,
		console,
		usecase.Settings{
			PageSize:    cfg.PageSize,
			Retry:       retry,
			Credentials: creds,
			PDFFont:     cfg.PDFFont,
		},
	), nil
}
