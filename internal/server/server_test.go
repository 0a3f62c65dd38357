package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/export"
	"github.com/joseph-ayodele/menuscan/internal/menuparse"
	"github.com/joseph-ayodele/menuscan/internal/pipeline"
	"github.com/joseph-ayodele/menuscan/internal/repository"
	"github.com/joseph-ayodele/menuscan/internal/synonyms"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startServer serves the menu service over an in-memory listener and returns a client for it.
func startServer(t *testing.T) (*MenuClient, *repository.MemoryStore) {
	t.Helper()
	logger := testLogger()
	store := repository.NewMemoryStore(logger)
	svc := NewMenuService(
		pipeline.NewProcessor(logger, menuparse.NewParser(), store, nil),
		export.NewService(logger),
		synonyms.NewResolver(store, common.SearchConfig{}, logger),
		synonyms.NewMapper(store, logger),
		logger,
	)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	RegisterMenuServiceServer(srv, svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewMenuClient(conn), store
}

func TestParseReceiptRPC(t *testing.T) {
	client, store := startServer(t)
	ctx := context.Background()

	resp, err := client.ParseReceipt(ctx, &ParseReceiptRequest{
		Source:  "table-7",
		Payload: entity.OCRPayload{Text: "BURGER\n£8.50\nFRIES £3.00"},
	})
	if err != nil {
		t.Fatalf("ParseReceipt: %v", err)
	}
	want := []entity.ParsedMenuItem{{Name: "BURGER", Price: 8.5}, {Name: "FRIES", Price: 3}}
	if diff := cmp.Diff(want, resp.MenuItems); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if !resp.Success || resp.Trace != nil {
		t.Fatalf("unexpected response %+v", resp.Result)
	}
	if st, _ := store.Stats(ctx); st.ParsedItems != 2 {
		t.Fatalf("expected parsed items to be persisted, got %d", st.ParsedItems)
	}

	empty, err := client.ParseReceipt(ctx, &ParseReceiptRequest{})
	if err != nil {
		t.Fatalf("ParseReceipt(empty): %v", err)
	}
	if empty.Success || empty.Reason != menuparse.ReasonMissingInput {
		t.Fatalf("unexpected empty response %+v", empty.Result)
	}
}

func TestExportMenuItemsRPC(t *testing.T) {
	client, _ := startServer(t)
	ctx := context.Background()

	resp, err := client.ExportMenuItems(ctx, &ParseReceiptRequest{
		Source:  "uploads/receipt-1.json",
		Payload: entity.OCRPayload{Text: "BURGER\n£8.50"},
	})
	if err != nil {
		t.Fatalf("ExportMenuItems: %v", err)
	}
	if resp.Filename != "receipt-1.xlsx" || resp.Rows != 1 {
		t.Fatalf("unexpected response %s/%d", resp.Filename, resp.Rows)
	}
	f, err := excelize.OpenReader(bytes.NewReader(resp.Content))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(export.ItemsSheet, "A2"); v != "BURGER" {
		t.Fatalf("A2 = %q", v)
	}

	_, err = client.ExportMenuItems(ctx, &ParseReceiptRequest{})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition for an empty payload, got %v", err)
	}
}

func TestSynonymRPCs(t *testing.T) {
	client, _ := startServer(t)
	ctx := context.Background()

	mapped, err := client.MapSynonym(ctx, &MapSynonymRequest{Synonym: "chik", CreateNewItem: true, NewItemName: "Chicken Curry"})
	if err != nil {
		t.Fatalf("MapSynonym: %v", err)
	}
	if mapped.Action != constants.ActionCreated || mapped.Synonym.Text != "CHIK" {
		t.Fatalf("unexpected map result %+v", mapped.MapResult)
	}

	again, err := client.MapSynonym(ctx, &MapSynonymRequest{Synonym: "CHIK", CreateNewItem: true, NewItemName: "CHICKEN CURRY"})
	if err != nil || again.Action != constants.ActionAlreadyExists {
		t.Fatalf("second MapSynonym = %+v, %v", again, err)
	}

	search, err := client.SearchMenuItems(ctx, &SearchMenuItemsRequest{Query: "chi"})
	if err != nil {
		t.Fatalf("SearchMenuItems: %v", err)
	}
	want := []synonyms.Candidate{{ID: mapped.Synonym.MenuItemID, Name: "CHICKEN CURRY"}}
	if diff := cmp.Diff(want, search.Candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}

	found, err := client.LookupSynonym(ctx, &LookupSynonymRequest{Synonym: "Chik"})
	if err != nil || !found.Found || found.Match.MenuItemName != "CHICKEN CURRY" {
		t.Fatalf("LookupSynonym = %+v, %v", found, err)
	}
	missing, err := client.LookupSynonym(ctx, &LookupSynonymRequest{Synonym: "PANEER"})
	if err != nil || missing.Found || missing.Match != nil {
		t.Fatalf("LookupSynonym(missing) = %+v, %v", missing, err)
	}

	deleted, err := client.DeleteSynonym(ctx, &DeleteSynonymRequest{SynonymID: mapped.Synonym.ID.String()})
	if err != nil || deleted.Deleted.Text != "CHIK" {
		t.Fatalf("DeleteSynonym = %+v, %v", deleted, err)
	}
}

func TestRPCErrorCodes(t *testing.T) {
	client, _ := startServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{"multi-word lookup", func() error {
			_, err := client.LookupSynonym(ctx, &LookupSynonymRequest{Synonym: "CHICKEN CURRY"})
			return err
		}, codes.InvalidArgument},
		{"map without target", func() error {
			_, err := client.MapSynonym(ctx, &MapSynonymRequest{Synonym: "CHIK"})
			return err
		}, codes.InvalidArgument},
		{"delete bad id", func() error {
			_, err := client.DeleteSynonym(ctx, &DeleteSynonymRequest{SynonymID: "not-a-uuid"})
			return err
		}, codes.InvalidArgument},
		{"delete blank id", func() error {
			_, err := client.DeleteSynonym(ctx, &DeleteSynonymRequest{SynonymID: "  "})
			return err
		}, codes.InvalidArgument},
		{"delete unknown id", func() error {
			_, err := client.DeleteSynonym(ctx, &DeleteSynonymRequest{SynonymID: "6f1c2f4e-4a0e-4a52-9d55-3f0c1a2b3c4d"})
			return err
		}, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(tt.call()); got != tt.want {
				t.Fatalf("code = %s, want %s", got, tt.want)
			}
		})
	}
}
