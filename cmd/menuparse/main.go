package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/export"
	"github.com/joseph-ayodele/menuscan/internal/ingest"
	"github.com/joseph-ayodele/menuscan/internal/menuparse"
	"github.com/joseph-ayodele/menuscan/internal/ocr"
	"github.com/joseph-ayodele/menuscan/internal/pipeline"
	repo "github.com/joseph-ayodele/menuscan/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type output struct {
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
	menuparse.Result
}

func main() {
	var (
		strategy = flag.String("strategy", "", "pairing strategy: auto, adjacency, table, column (default from PARSE_STRATEGY)")
		xlsxDir  = flag.String("xlsx", "", "directory to write one XLSX export per input (optional)")
		persist  = flag.Bool("persist", false, "save parsed items to the configured store")
		trace    = flag.Bool("trace", false, "include strategy trace and candidates in the output")
		dedupe   = flag.Bool("dedupe", false, "clean duplicate sequences in item names read from args or stdin")
		workers  = flag.Int("workers", 4, "parallel workers when several inputs are given")
		timeout  = flag.Duration("timeout", 2*time.Minute, "per-input processing timeout")
		watch    = flag.Bool("watch", false, "keep watching directory inputs and parse new files as they appear")
	)
	flag.Usage = func() {
		printError("usage: menuparse [flags] <receipt.json|receipt.txt|image|dir>...\n       menuparse -dedupe [name...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *dedupe {
		if err := runDedupe(flag.Args(), os.Stdin, os.Stdout); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	inputs, dirs, err := expandInputs(flag.Args(), logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *watch && len(dirs) == 0 {
		printError("Error: -watch needs at least one directory input\n")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if *strategy != "" {
		cfg.Parser.Strategy = strings.ToLower(*strategy)
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sink repo.MenuItemSink
	if *persist {
		store, err := repo.OpenStore(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to open store", "driver", cfg.Database.Driver, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		sink = store
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
	}, logger)
	parser := menuparse.NewParser(menuparse.WithStrategy(cfg.Parser.Strategy))
	processor := pipeline.NewProcessor(logger, parser, sink, extractor)
	exporter := export.NewService(logger)

	if *watch {
		if err := runWatch(ctx, dirs, processor, exporter, *xlsxDir, *trace, *workers, *timeout, logger); err != nil {
			logger.Error("watch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	var mu sync.Mutex
	results := make(map[string]output, len(inputs))
	queue := pipeline.NewQueue(processor, logger,
		pipeline.WithWorkers(*workers),
		pipeline.WithQueueSize(len(inputs)+1),
		pipeline.WithProcessTimeout(*timeout),
		pipeline.WithResultHandler(func(job pipeline.Job, res menuparse.Result, err error) {
			out := newOutput(job.Source, res, err, *trace)
			mu.Lock()
			results[job.Source] = out
			mu.Unlock()
		}),
	)
	for _, in := range inputs {
		if err := queue.Enqueue(ctx, pipeline.Job{Source: in}); err != nil {
			logger.Error("failed to enqueue input", "source", in, "error", err)
		}
	}
	queue.Shutdown(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	failed := false
	for _, in := range inputs {
		out, ok := results[in]
		if !ok {
			out = output{Source: in, Error: "not processed"}
		}
		if out.Error != "" {
			failed = true
		}
		if err := enc.Encode(out); err != nil {
			printError("Error: writing output: %v\n", err)
			os.Exit(1)
		}
		if *xlsxDir != "" && out.Success {
			if err := writeXLSX(ctx, exporter, *xlsxDir, in, out.Result); err != nil {
				logger.Error("xlsx export failed", "source", in, "error", err)
				failed = true
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}

func newOutput(source string, res menuparse.Result, err error, trace bool) output {
	out := output{Source: source, Result: res}
	if err != nil {
		out.Error = err.Error()
	}
	if !trace {
		out.Trace = nil
		out.Candidates = nil
	}
	return out
}

// expandInputs replaces directory arguments with the supported files under them, skipping
// files whose content repeats an earlier one.
func expandInputs(args []string, logger *slog.Logger) (files, dirs []string, err error) {
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}
		if !fi.IsDir() {
			files = append(files, arg)
			continue
		}
		dirs = append(dirs, arg)
		found, _, err := ingest.ScanDirectory(arg, true, logger)
		if err != nil {
			return nil, nil, err
		}
		for _, f := range found {
			if f.Err == "" && !f.Deduplicated {
				files = append(files, f.Path)
			}
		}
	}
	return files, dirs, nil
}

// runWatch parses every file that appears under dirs and prints one JSON line per result until
// ctx is cancelled.
func runWatch(ctx context.Context, dirs []string, processor *pipeline.Processor, exporter *export.Service,
	xlsxDir string, trace bool, workers int, timeout time.Duration, logger *slog.Logger) error {
	events, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
		Roots:       dirs,
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	}, logger)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)
	queue := pipeline.NewQueue(processor, logger,
		pipeline.WithWorkers(workers),
		pipeline.WithProcessTimeout(timeout),
		pipeline.WithResultHandler(func(job pipeline.Job, res menuparse.Result, err error) {
			out := newOutput(job.Source, res, err, trace)
			mu.Lock()
			defer mu.Unlock()
			if err := enc.Encode(out); err != nil {
				logger.Error("writing output", "error", err)
			}
			if xlsxDir != "" && out.Success {
				if err := writeXLSX(ctx, exporter, xlsxDir, job.Source, res); err != nil {
					logger.Error("xlsx export failed", "source", job.Source, "error", err)
				}
			}
		}),
	)
	defer queue.Shutdown(context.Background())

	logger.Info("watching for receipts", "dirs", dirs)
	for {
		select {
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if err := queue.Enqueue(ctx, pipeline.Job{Source: path}); err != nil {
				logger.Warn("failed to enqueue file", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher reported an error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func writeXLSX(ctx context.Context, exporter *export.Service, dir, source string, res menuparse.Result) error {
	content, err := exporter.ExportItemsXLSX(ctx, source, res)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return os.WriteFile(filepath.Join(dir, base+".xlsx"), content, 0o644)
}

// runDedupe prints each name with its duplicate sequences collapsed. Names come from args, or
// one per line from r when no args are given.
func runDedupe(args []string, r io.Reader, w io.Writer) error {
	names := args
	if len(names) == 0 {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				names = append(names, line)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}
	for _, name := range names {
		cleaned, removed := menuparse.CleanItemName(name)
		if _, err := fmt.Fprintf(w, "%s\t%s\t%t\n", name, cleaned, removed); err != nil {
			return err
		}
	}
	return nil
}
