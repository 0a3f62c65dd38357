package ocr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/menuscan/internal/entity"
)

// TSV columns emitted by tesseract.
const (
	colLevel = iota
	colPage
	colBlock
	colPar
	colLine
	colWord
	colLeft
	colTop
	colWidth
	colHeight
	colConf
	colText
	tsvColumns
)

const wordLevel = 5

type lineKey struct {
	page, block, par, line int
}

type lineAcc struct {
	words                  []string
	confSum                float64
	confN                  int
	minX, minY, maxX, maxY int
}

// parseTSV groups tesseract word rows into one detection per text line, in reading order.
func parseTSV(out string) ([]entity.RawDetection, []string) {
	var warns []string
	var order []lineKey
	acc := make(map[lineKey]*lineAcc)

	for i, ln := range strings.Split(out, "\n") {
		if i == 0 || strings.TrimSpace(ln) == "" {
			continue
		}
		cols := strings.Split(strings.TrimRight(ln, "\r"), "\t")
		if len(cols) < tsvColumns {
			warns = append(warns, fmt.Sprintf("tsv row %d has %d columns", i, len(cols)))
			continue
		}
		nums, ok := atoiAll(cols[:colConf])
		if !ok {
			warns = append(warns, fmt.Sprintf("tsv row %d is not numeric", i))
			continue
		}
		word := strings.TrimSpace(cols[colText])
		if nums[colLevel] != wordLevel || word == "" {
			continue
		}

		key := lineKey{nums[colPage], nums[colBlock], nums[colPar], nums[colLine]}
		a, seen := acc[key]
		x0, y0 := nums[colLeft], nums[colTop]
		x1, y1 := x0+nums[colWidth], y0+nums[colHeight]
		if !seen {
			a = &lineAcc{minX: x0, minY: y0, maxX: x1, maxY: y1}
			acc[key] = a
			order = append(order, key)
		}
		a.words = append(a.words, word)
		a.minX, a.minY = min(a.minX, x0), min(a.minY, y0)
		a.maxX, a.maxY = max(a.maxX, x1), max(a.maxY, y1)
		if c, err := strconv.ParseFloat(cols[colConf], 64); err == nil && c >= 0 {
			a.confSum += c
			a.confN++
		}
	}

	dets := make([]entity.RawDetection, 0, len(order))
	for _, key := range order {
		a := acc[key]
		conf := 0.0
		if a.confN > 0 {
			conf = a.confSum / float64(a.confN) / 100
		}
		dets = append(dets, entity.RawDetection{
			Text:       strings.Join(a.words, " "),
			Confidence: conf,
			BoundingPoly: entity.BoundingPoly{Vertices: []entity.Vertex{
				{X: a.minX, Y: a.minY}, {X: a.maxX, Y: a.minY},
				{X: a.maxX, Y: a.maxY}, {X: a.minX, Y: a.maxY},
			}},
		})
	}
	return dets, warns
}

func atoiAll(cols []string) ([]int, bool) {
	out := make([]int, len(cols))
	for i, c := range cols {
		n, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
