package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/menuparse"
	"github.com/joseph-ayodele/menuscan/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingSink struct{}

func (failingSink) SaveParsedItems(context.Context, string, []entity.ParsedMenuItem) error {
	return errors.New("disk full")
}

func TestProcessPersistsItems(t *testing.T) {
	store := repository.NewMemoryStore(testLogger())
	p := NewProcessor(testLogger(), menuparse.NewParser(), store, nil)

	res, err := p.Process(context.Background(), "r1", entity.OCRPayload{Text: "BURGER\n£8.50\nFRIES £3.00"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := []entity.ParsedMenuItem{{Name: "BURGER", Price: 8.5}, {Name: "FRIES", Price: 3}}
	if diff := cmp.Diff(want, res.MenuItems); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	st, _ := store.Stats(context.Background())
	if st.ParsedItems != 2 {
		t.Fatalf("expected 2 persisted items, got %d", st.ParsedItems)
	}
}

func TestProcessEmptyIsNotAnError(t *testing.T) {
	store := repository.NewMemoryStore(testLogger())
	p := NewProcessor(testLogger(), nil, store, nil)

	res, err := p.Process(context.Background(), "r2", entity.OCRPayload{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Success || res.Reason != menuparse.ReasonMissingInput {
		t.Fatalf("unexpected result %+v", res)
	}
	st, _ := store.Stats(context.Background())
	if st.ParsedItems != 0 {
		t.Fatalf("nothing should be persisted, got %d", st.ParsedItems)
	}
}

func TestProcessSinkFailure(t *testing.T) {
	p := NewProcessor(testLogger(), nil, failingSink{}, nil)
	_, err := p.Process(context.Background(), "r3", entity.OCRPayload{Text: "BURGER £8.50"})
	if common.CodeOf(err) != common.CodeStorage {
		t.Fatalf("expected STORAGE_ERROR, got %v", err)
	}
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.json")
	if err := os.WriteFile(path, []byte(`{"text":"TEA\n1.20"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := NewProcessor(testLogger(), nil, nil, nil).ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if len(res.MenuItems) != 1 || res.MenuItems[0].Name != "TEA" || res.MenuItems[0].Price != 1.2 {
		t.Fatalf("unexpected items %+v", res.MenuItems)
	}
}

func TestQueueProcessesAllJobs(t *testing.T) {
	store := repository.NewMemoryStore(testLogger())
	proc := NewProcessor(testLogger(), nil, store, nil)

	var mu sync.Mutex
	var done []string
	q := NewQueue(proc, testLogger(),
		WithWorkers(2),
		WithQueueSize(1),
		WithProcessTimeout(5*time.Second),
		WithResultHandler(func(job Job, res menuparse.Result, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil && res.Success {
				done = append(done, job.Source)
			}
		}),
	)

	texts := map[string]string{
		"a": "BURGER\n£8.50",
		"b": "FRIES £3.00",
		"c": "TEA\n1.20",
	}
	for src, text := range texts {
		payload := entity.OCRPayload{Text: text}
		if err := q.Enqueue(context.Background(), Job{Source: src, Payload: &payload}); err != nil {
			t.Fatalf("Enqueue(%s): %v", src, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	sort.Strings(done)
	if diff := cmp.Diff([]string{"a", "b", "c"}, done); diff != "" {
		t.Fatalf("processed sources mismatch (-want +got):\n%s", diff)
	}
	st, _ := store.Stats(context.Background())
	if st.ParsedItems != 3 {
		t.Fatalf("expected 3 persisted items, got %d", st.ParsedItems)
	}

	if err := q.Enqueue(context.Background(), Job{Source: "late"}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed after shutdown, got %v", err)
	}
}
