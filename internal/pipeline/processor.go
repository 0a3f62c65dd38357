package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/menuparse"
	"github.com/joseph-ayodele/menuscan/internal/ocr"
	"github.com/joseph-ayodele/menuscan/internal/repository"
)

// Processor coordinates OCR payload loading, menu parsing and persistence of the parsed items.
type Processor struct {
	logger    *slog.Logger
	parser    *menuparse.Parser
	sink      repository.MenuItemSink
	extractor *ocr.Extractor
}

// NewProcessor wires a processor. sink and extractor are optional: without a sink results are
// only returned, without an extractor image inputs are rejected.
func NewProcessor(logger *slog.Logger, parser *menuparse.Parser, sink repository.MenuItemSink, extractor *ocr.Extractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = menuparse.NewParser()
	}
	return &Processor{logger: logger, parser: parser, sink: sink, extractor: extractor}
}

// Process parses one OCR payload. A parse that finds nothing is not an error; the result carries
// the reason. Storage failures are.
func (p *Processor) Process(ctx context.Context, source string, payload entity.OCRPayload) (menuparse.Result, error) {
	logger := common.LoggerFromContext(ctx, p.logger)
	res := p.parser.Parse(payload)
	for _, ev := range res.Trace {
		logger.Debug("processor.trace", "source", source, "stage", ev.Stage, "line", ev.Line, "message", ev.Message)
	}

	if !res.Success {
		logger.Warn("processor.parse.empty", "source", source, "reason", res.Reason)
		return res, nil
	}
	logger.Info("processor.parse.ok",
		"source", source,
		"strategy", res.Strategy,
		"items", len(res.MenuItems),
		"totals", len(res.Totals),
	)

	if p.sink != nil {
		if err := p.sink.SaveParsedItems(ctx, source, res.MenuItems); err != nil {
			logger.Error("processor.persist.failed", "source", source, "error", err)
			return res, common.NewAppError(common.CodeStorage, "failed to persist parsed items", err)
		}
		logger.Info("processor.persist.ok", "source", source, "items", len(res.MenuItems))
	}
	return res, nil
}

// ProcessFile loads a payload (JSON, text or image) from path and processes it.
func (p *Processor) ProcessFile(ctx context.Context, path string) (menuparse.Result, error) {
	payload, err := ocr.LoadPayload(ctx, path, p.extractor)
	if err != nil {
		p.logger.Error("processor.load.failed", "path", path, "error", err)
		return menuparse.Result{MenuItems: []entity.ParsedMenuItem{}}, err
	}
	return p.Process(ctx, path, payload)
}
