package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/export"
	"github.com/joseph-ayodele/menuscan/internal/menuparse"
	"github.com/joseph-ayodele/menuscan/internal/ocr"
	"github.com/joseph-ayodele/menuscan/internal/pipeline"
	repo "github.com/joseph-ayodele/menuscan/internal/repository"
	svc "github.com/joseph-ayodele/menuscan/internal/server"
	"github.com/joseph-ayodele/menuscan/internal/synonyms"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repo.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
	}, logger)
	parser := menuparse.NewParser(menuparse.WithStrategy(cfg.Parser.Strategy))
	processor := pipeline.NewProcessor(logger, parser, store, extractor)

	menuService := svc.NewMenuService(
		processor,
		export.NewService(logger),
		synonyms.NewResolver(store, cfg.Search, logger),
		synonyms.NewMapper(store, logger),
		logger,
	)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(svc.LoggingInterceptor(logger)))
	svc.RegisterMenuServiceServer(grpcServer, menuService)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	logger.Info("menud listening", "addr", cfg.Server.GRPCAddr, "store", cfg.Database.Driver, "strategy", cfg.Parser.Strategy)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.Shutdown()
	grpcServer.GracefulStop()
}
