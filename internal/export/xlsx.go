package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/menuparse"
)

const (
	ItemsSheet  = "Menu Items"
	TotalsSheet = "Totals"
)

// Service renders parse results as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportItemsXLSX returns a workbook with one row per parsed menu item and, when the receipt
// had summary rows, a second sheet with the totals.
func (s *Service) ExportItemsXLSX(_ context.Context, source string, res menuparse.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", ItemsSheet); err != nil {
		return nil, err
	}

	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	headers := []string{"Name", "Price", "Duplicate", "Category", "Source"}
	writeHeader(f, ItemsSheet, headers, headerStyle)

	for i, it := range res.MenuItems {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(ItemsSheet, cell, v)
		}
		write(1, it.Name)
		write(2, it.Price)
		write(3, it.IsDuplicate)
		write(4, string(menuparse.CategoryOf(it.Name)))
		write(5, source)
	}
	if n := len(res.MenuItems); n > 0 {
		last, _ := excelize.CoordinatesToCellName(2, n+1)
		_ = f.SetCellStyle(ItemsSheet, "B2", last, priceStyle)
	}
	_ = f.SetColWidth(ItemsSheet, "A", "A", 32)
	_ = f.SetColWidth(ItemsSheet, "B", "C", 12)
	_ = f.SetColWidth(ItemsSheet, "D", "D", 14)
	_ = f.SetColWidth(ItemsSheet, "E", "E", 40)

	if len(res.Totals) > 0 {
		if _, err := f.NewSheet(TotalsSheet); err != nil {
			return nil, err
		}
		writeHeader(f, TotalsSheet, []string{"Kind", "Amount"}, headerStyle)
		for i, t := range res.Totals {
			_ = f.SetCellValue(TotalsSheet, fmt.Sprintf("A%d", i+2), string(t.Kind))
			_ = f.SetCellValue(TotalsSheet, fmt.Sprintf("B%d", i+2), t.Amount)
		}
		_ = f.SetCellStyle(TotalsSheet, "B2", fmt.Sprintf("B%d", len(res.Totals)+1), priceStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.WrapError(err, "xlsx write")
	}

	s.logger.Info("export.xlsx.ok",
		"source", source,
		"rows", len(res.MenuItems),
		"totals", len(res.Totals),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, style)
}
