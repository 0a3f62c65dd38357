package server

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/export"
	"github.com/joseph-ayodele/menuscan/internal/pipeline"
	"github.com/joseph-ayodele/menuscan/internal/synonyms"
)

// MenuService implements MenuServiceServer on top of the parse pipeline and the synonym services.
type MenuService struct {
	processor *pipeline.Processor
	exporter  *export.Service
	resolver  *synonyms.Resolver
	mapper    *synonyms.Mapper
	logger    *slog.Logger
}

func NewMenuService(processor *pipeline.Processor, exporter *export.Service, resolver *synonyms.Resolver, mapper *synonyms.Mapper, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	return &MenuService{
		processor: processor,
		exporter:  exporter,
		resolver:  resolver,
		mapper:    mapper,
		logger:    logger,
	}
}

func (s *MenuService) ParseReceipt(ctx context.Context, req *ParseReceiptRequest) (*ParseReceiptResponse, error) {
	source := sourceName(req.Source)
	res, err := s.processor.Process(ctx, source, req.Payload)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	if !req.IncludeTrace {
		res.Trace = nil
		res.Candidates = nil
	}
	return &ParseReceiptResponse{Result: res}, nil
}

func (s *MenuService) ExportMenuItems(ctx context.Context, req *ParseReceiptRequest) (*ExportMenuItemsResponse, error) {
	source := sourceName(req.Source)
	res, err := s.processor.Process(ctx, source, req.Payload)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	if !res.Success {
		return nil, status.Error(codes.FailedPrecondition, res.Reason)
	}
	content, err := s.exporter.ExportItemsXLSX(ctx, source, res)
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Error("export failed", "source", source, "error", err)
		return nil, common.InternalError("export failed")
	}
	name := strings.TrimSuffix(path.Base(source), path.Ext(source)) + ".xlsx"
	return &ExportMenuItemsResponse{Filename: name, Rows: len(res.MenuItems), Content: content}, nil
}

func (s *MenuService) SearchMenuItems(ctx context.Context, req *SearchMenuItemsRequest) (*SearchMenuItemsResponse, error) {
	res, err := s.resolver.Search(ctx, req.Query)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &SearchMenuItemsResponse{SearchResult: res}, nil
}

func (s *MenuService) LookupSynonym(ctx context.Context, req *LookupSynonymRequest) (*LookupSynonymResponse, error) {
	row, err := s.resolver.Lookup(ctx, req.Synonym)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &LookupSynonymResponse{Found: row != nil, Match: row}, nil
}

func (s *MenuService) MapSynonym(ctx context.Context, req *MapSynonymRequest) (*MapSynonymResponse, error) {
	res, err := s.mapper.Map(ctx, *req)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &MapSynonymResponse{MapResult: res}, nil
}

func (s *MenuService) DeleteSynonym(ctx context.Context, req *DeleteSynonymRequest) (*DeleteSynonymResponse, error) {
	raw := strings.TrimSpace(req.SynonymID)
	if v := common.NewValidator().Field("synonym_id", raw, common.Required, common.UUID); v.HasErrors() {
		return nil, common.ToStatus(v.AppError())
	}
	removed, err := s.mapper.Delete(ctx, uuid.MustParse(raw))
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &DeleteSynonymResponse{Deleted: *removed}, nil
}

func sourceName(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "grpc"
}

// LoggingInterceptor tags each call with a request ID and a request-scoped logger, and logs
// the outcome.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx, requestID := common.EnsureRequestID(ctx)
		reqLogger := logger.With("request_id", requestID, "method", info.FullMethod)
		ctx = common.WithLogger(ctx, reqLogger)

		resp, err := handler(ctx, req)
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			reqLogger.Warn("rpc.failed", "code", status.Code(err).String(), "error", err, "elapsed_ms", elapsed)
			return resp, err
		}
		reqLogger.Info("rpc.ok", "elapsed_ms", elapsed)
		return resp, nil
	}
}
