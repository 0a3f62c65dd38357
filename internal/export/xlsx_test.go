package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/menuparse"
)

func TestExportItemsXLSX(t *testing.T) {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	res := menuparse.Result{
		Success: true,
		MenuItems: []entity.ParsedMenuItem{
			{Name: "CHICKEN CURRY", Price: 7.5},
			{Name: "TOAST BREAD", Price: 2, IsDuplicate: true},
		},
		Totals: []menuparse.Total{{Kind: constants.TagTotal, Amount: 9.5}},
	}

	b, err := svc.ExportItemsXLSX(context.Background(), "receipt.json", res)
	if err != nil {
		t.Fatalf("ExportItemsXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ItemsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if diff := cmp.Diff([]string{"Name", "Price", "Duplicate", "Category", "Source"}, rows[0]); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "CHICKEN CURRY" || rows[1][3] != string(constants.Protein) {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[2][2] != "TRUE" {
		t.Fatalf("duplicate flag = %q, want TRUE", rows[2][2])
	}

	totals, err := f.GetRows(TotalsSheet)
	if err != nil || len(totals) != 2 || totals[1][0] != "TOTAL" {
		t.Fatalf("totals sheet = %v, %v", totals, err)
	}
}

func TestExportEmptyResult(t *testing.T) {
	b, err := NewService(nil).ExportItemsXLSX(context.Background(), "empty", menuparse.Result{})
	if err != nil {
		t.Fatalf("ExportItemsXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex(TotalsSheet); idx != -1 {
		t.Fatal("totals sheet should be absent without totals")
	}
}
