package menuparse

import (
	"sort"
	"strings"

	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/textnorm"
)

// sourceLine is one text line with the mean confidence of the detections it came from.
type sourceLine struct {
	text       string
	confidence float64
}

type placedDetection struct {
	entity.RawDetection
	minX, minY, maxX, maxY int
	order                  int
}

// LinesFromDetections rebuilds reading-order lines from word/phrase detections. Detections whose
// vertical centre falls inside a row's band join that row; rows are ordered top to bottom and
// their detections left to right. A detection that already spans several lines (a full-text
// annotation) is used as the whole text.
func LinesFromDetections(dets []entity.RawDetection) []string {
	lines := linesFromDetections(dets)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text
	}
	return out
}

func linesFromDetections(dets []entity.RawDetection) []sourceLine {
	for _, d := range dets {
		if strings.Contains(strings.TrimSpace(d.Text), "\n") {
			return textLines(d.Text, d.Confidence)
		}
	}

	var placed []placedDetection
	var unplaced []sourceLine
	for i, d := range dets {
		text := textnorm.NormalizeLine(d.Text)
		if text == "" {
			continue
		}
		if len(d.BoundingPoly.Vertices) == 0 {
			unplaced = append(unplaced, sourceLine{text: text, confidence: d.Confidence})
			continue
		}
		minX, minY, maxX, maxY := d.BoundingPoly.Bounds()
		d.Text = text
		placed = append(placed, placedDetection{RawDetection: d, minX: minX, minY: minY, maxX: maxX, maxY: maxY, order: i})
	}

	sort.SliceStable(placed, func(a, b int) bool { return placed[a].minY < placed[b].minY })

	var rows [][]placedDetection
	for _, p := range placed {
		centre := (p.minY + p.maxY) / 2
		if n := len(rows); n > 0 {
			top, bottom := rowBand(rows[n-1])
			if centre >= top && centre <= bottom {
				rows[n-1] = append(rows[n-1], p)
				continue
			}
		}
		rows = append(rows, []placedDetection{p})
	}

	out := make([]sourceLine, 0, len(rows)+len(unplaced))
	for _, row := range rows {
		sort.SliceStable(row, func(a, b int) bool { return row[a].minX < row[b].minX })
		parts := make([]string, len(row))
		conf := 0.0
		for i, p := range row {
			parts[i] = p.Text
			conf += p.Confidence
		}
		out = append(out, sourceLine{text: strings.Join(parts, " "), confidence: conf / float64(len(row))})
	}
	return append(out, unplaced...)
}

func rowBand(row []placedDetection) (int, int) {
	top, bottom := row[0].minY, row[0].maxY
	for _, p := range row[1:] {
		if p.minY < top {
			top = p.minY
		}
		if p.maxY > bottom {
			bottom = p.maxY
		}
	}
	return top, bottom
}

func textLines(text string, confidence float64) []sourceLine {
	raw := textnorm.Lines(text)
	out := make([]sourceLine, len(raw))
	for i, l := range raw {
		out[i] = sourceLine{text: l, confidence: confidence}
	}
	return out
}
