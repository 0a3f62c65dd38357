package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Language    string // default "eng"
	TessdataDir string

	PSM int // 6 suits a uniform block of text; 4 suits single-column receipts
	OEM int // 1 = LSTM; leave 0 to use default
}

// Result is one recognized image as an OCR payload plus run metadata.
type Result struct {
	Payload    entity.OCRPayload
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// Extractor turns images into OCR payloads by running tesseract in TSV mode.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract recognizes the image at path. Line-level detections carry the mean word confidence
// and the union of the word boxes.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsImageExt(ext) {
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	e.logger.Debug("starting ocr extraction", "path", path, "ext", ext)

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.args(path)...)
	if err != nil {
		return Result{Warnings: []string{truncate(string(errb), 1<<10)}}, common.WrapError(err, "tesseract TSV")
	}

	dets, warns := parseTSV(string(out))
	lines := make([]string, len(dets))
	var ocrConf float64
	for i, d := range dets {
		lines[i] = d.Text
		ocrConf += d.Confidence
	}
	text := strings.Join(lines, "\n")
	if len(dets) > 0 {
		ocrConf /= float64(len(dets))
	}

	conf := heuristicConfidence(text)
	if ocrConf > 0 {
		conf = 0.7*float32(ocrConf) + 0.3*conf
	}
	if conf > 1.0 {
		conf = 1.0
	}

	res := Result{
		Payload:    entity.OCRPayload{Text: text, Detections: dets},
		Language:   e.cfg.Language,
		Duration:   time.Since(start),
		Warnings:   warns,
		Confidence: conf,
	}
	e.logger.Info("ocr.extract.ok", "path", path, "lines", len(dets), "confidence", conf, "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

// args builds: tesseract <file> stdout -l <lang> [--psm n] [--oem n] [--tessdata-dir d] tsv
func (e *Extractor) args(path string) []string {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return append(args, "tsv")
}
