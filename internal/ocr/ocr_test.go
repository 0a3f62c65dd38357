package ocr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

type stubRunner struct {
	stdout string
	err    error
	gotArg []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotArg = append([]string{name}, args...)
	if s.err != nil {
		return nil, []byte("boom"), s.err
	}
	return []byte(s.stdout), nil, nil
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t600\t400\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t10\t50\t250\t20\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t50\t60\t20\t90\tBURGER\n" +
	"5\t1\t1\t1\t1\t2\t200\t52\t50\t16\t70\t£8.50\n" +
	"5\t1\t1\t1\t2\t1\t10\t100\t50\t20\t80\tFRIES\n" +
	"5\t1\t1\t1\t2\t2\t200\t102\t50\t16\t-1\t \n" +
	"5\t1\t1\t1\t2\t3\t200\t102\t50\t16\t60\t£3.00\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseTSVGroupsWordsIntoLines(t *testing.T) {
	dets, warns := parseTSV(sampleTSV)
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings %v", warns)
	}
	want := []entity.RawDetection{
		{
			Text:       "BURGER £8.50",
			Confidence: 0.8,
			BoundingPoly: entity.BoundingPoly{Vertices: []entity.Vertex{
				{X: 10, Y: 50}, {X: 250, Y: 50}, {X: 250, Y: 70}, {X: 10, Y: 70},
			}},
		},
		{
			Text:       "FRIES £3.00",
			Confidence: 0.7,
			BoundingPoly: entity.BoundingPoly{Vertices: []entity.Vertex{
				{X: 10, Y: 100}, {X: 250, Y: 100}, {X: 250, Y: 120}, {X: 10, Y: 120},
			}},
		},
	}
	approx := cmp.Comparer(func(a, b float64) bool { d := a - b; return d < 1e-9 && d > -1e-9 })
	if diff := cmp.Diff(want, dets, approx); diff != "" {
		t.Fatalf("detections mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTSVWarnsOnShortRows(t *testing.T) {
	_, warns := parseTSV("header\n5\t1\t1\n")
	if len(warns) != 1 {
		t.Fatalf("expected one warning, got %v", warns)
	}
}

func TestExtractUsesRunner(t *testing.T) {
	stub := &stubRunner{stdout: sampleTSV}
	e := NewExtractor(Config{PSM: 6, TessdataDir: "/tessdata"}, testLogger())
	e.runner = stub

	res, err := e.Extract(context.Background(), "receipt.PNG")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Payload.Text != "BURGER £8.50\nFRIES £3.00" {
		t.Fatalf("text = %q", res.Payload.Text)
	}
	wantArgs := []string{"tesseract", "receipt.PNG", "stdout", "-l", "eng", "--psm", "6", "--tessdata-dir", "/tessdata", "tsv"}
	if diff := cmp.Diff(wantArgs, stub.gotArg); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", res.Confidence)
	}
}

func TestExtractErrors(t *testing.T) {
	e := NewExtractor(Config{}, testLogger())
	e.runner = &stubRunner{err: errors.New("exit status 1")}
	if _, err := e.Extract(context.Background(), "receipt.png"); err == nil {
		t.Fatal("expected runner failure to surface")
	}
	if _, err := e.Extract(context.Background(), "receipt.pdf"); err == nil {
		t.Fatal("expected unsupported extension error")
	}
}

func TestDecodePayload(t *testing.T) {
	data := []byte(`{"text":"BURGER\n£8.50","detections":[{"text":"BURGER","confidence":0.9,"boundingPoly":{"vertices":[{"x":10.4,"y":50},{"x":70,"y":70.6}]}}]}`)
	p, err := DecodePayload(data)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	want := entity.OCRPayload{
		Text: "BURGER\n£8.50",
		Detections: []entity.RawDetection{{
			Text:         "BURGER",
			Confidence:   0.9,
			BoundingPoly: entity.BoundingPoly{Vertices: []entity.Vertex{{X: 10, Y: 50}, {X: 70, Y: 71}}},
		}},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePayloadRejects(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"text": 42}`,
		`{"detections":[{"confidence":0.5}]}`,
		`{"detections":[{"text":"X","confidence":7}]}`,
	} {
		if _, err := DecodePayload([]byte(in)); common.CodeOf(err) != common.CodeInvalidFormat {
			t.Errorf("DecodePayload(%s) = %v, want INVALID_FORMAT", in, err)
		}
	}
}

func TestLoadPayload(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "receipt.txt")
	if err := os.WriteFile(txt, []byte("BURGER\n£8.50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPayload(context.Background(), txt, nil)
	if err != nil || !strings.HasPrefix(p.Text, "BURGER") {
		t.Fatalf("LoadPayload(txt) = %+v, %v", p, err)
	}

	if _, err := LoadPayload(context.Background(), filepath.Join(dir, "menu.png"), nil); common.CodeOf(err) != common.CodeConfig {
		t.Fatalf("expected CONFIG_ERROR without extractor, got %v", err)
	}
	if _, err := LoadPayload(context.Background(), filepath.Join(dir, "menu.docx"), nil); common.CodeOf(err) != common.CodeInvalidFormat {
		t.Fatalf("expected INVALID_FORMAT for unknown extension, got %v", err)
	}
}

func TestHeuristicConfidence(t *testing.T) {
	low := heuristicConfidence("hello")
	high := heuristicConfidence("ITEM QTY AMOUNT\nBURGER £8.50\n12/03/2024")
	if !(high > low) || high > 1 {
		t.Fatalf("expected receipt-like text to score higher: low=%v high=%v", low, high)
	}
}
