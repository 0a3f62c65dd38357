package menuparse

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/textnorm"
)

// Failure reasons reported in Result.Reason.
const (
	ReasonMissingInput = "no OCR text or detections supplied"
	ReasonNoItems      = "no menu items found"
)

// fallbackOrder is the order strategies are retried in after the probed one.
var fallbackOrder = []string{constants.StrategyTable, constants.StrategyColumn, constants.StrategyAdjacency}

// Result is the extraction output contract.
type Result struct {
	Success    bool                    `json:"success"`
	MenuItems  []entity.ParsedMenuItem `json:"menuItems"`
	Reason     string                  `json:"reason,omitempty"`
	Strategy   string                  `json:"strategy,omitempty"`
	Totals     []Total                 `json:"totals,omitempty"`
	Candidates []entity.CandidateItem  `json:"candidates,omitempty"`
	Trace      []TraceEvent            `json:"trace,omitempty"`
}

// Parser turns OCR output into menu items. It holds no mutable state and is safe for concurrent use.
type Parser struct {
	strategy string
}

type Option func(*Parser)

// WithStrategy forces the first strategy tried. "auto" or "" probes the layout.
func WithStrategy(name string) Option {
	return func(p *Parser) {
		if _, ok := StrategyByName(name); ok {
			p.strategy = name
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{strategy: constants.StrategyAuto}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse runs the full pipeline on an OCR payload. It never returns an error: missing input and
// unparseable layouts are reported through Result.Success and Result.Reason.
func (p *Parser) Parse(payload entity.OCRPayload) Result {
	if payload.IsEmpty() {
		return Result{Success: false, MenuItems: []entity.ParsedMenuItem{}, Reason: ReasonMissingInput}
	}

	var lines []sourceLine
	if strings.TrimSpace(payload.Text) != "" {
		lines = textLines(payload.Text, meanConfidence(payload.Detections))
	} else {
		lines = linesFromDetections(payload.Detections)
	}
	return p.parse(lines)
}

// ParseText parses newline-delimited OCR text.
func (p *Parser) ParseText(text string) Result {
	return p.Parse(entity.OCRPayload{Text: text})
}

func (p *Parser) parse(src []sourceLine) Result {
	res := Result{MenuItems: []entity.ParsedMenuItem{}}
	if len(src) == 0 {
		res.Reason = ReasonMissingInput
		return res
	}

	texts := make([]string, len(src))
	for i, l := range src {
		texts[i] = l.text
	}
	classified := ClassifyLines(texts)
	for _, l := range classified {
		res.trace("classify", l.Index, "%s %q", l.Tag, l.Text)
	}

	chosen, ok := p.pair(classified, &res)
	if !ok {
		return res
	}
	res.Strategy = chosen.Strategy
	res.Totals = chosen.Totals

	for _, pair := range chosen.Items {
		name := textnorm.NormalizeLine(pair.Name)
		price := pair.Price
		cand := entity.CandidateItem{Name: name, Price: &price, Quantity: pair.Quantity}
		if pair.Line >= 0 && pair.Line < len(src) {
			cand.Confidence = src[pair.Line].confidence
			cand.OriginalLine = src[pair.Line].text
		}
		if cand.Name == "" {
			res.trace("candidate", pair.Line, "dropped incomplete candidate")
			continue
		}

		cleaned, removed := CleanItemName(cand.Name)
		if removed {
			res.trace("dedupe", pair.Line, "%q collapsed to %q", cand.Name, cleaned)
		}
		cand.Name = cleaned
		cand.FoodScore = FoodScore(cleaned)
		cand.IsLikelyMenuItem = IsLikelyMenuItem(cleaned, price)
		res.Candidates = append(res.Candidates, cand)

		if !cand.IsLikelyMenuItem {
			res.trace("filter", pair.Line, "rejected %q (score %.1f)", cleaned, cand.FoodScore)
			continue
		}
		res.MenuItems = append(res.MenuItems, ExpandDuplicates(name, price)...)
	}

	if len(res.MenuItems) == 0 {
		res.Reason = ReasonNoItems
		return res
	}
	res.Success = true
	return res
}

// pair runs the probed (or forced) strategy and then the remaining ones until one yields items.
func (p *Parser) pair(lines []entity.ClassifiedLine, res *Result) (StrategyResult, bool) {
	first := p.strategy
	if first == constants.StrategyAuto {
		first = Probe(lines)
		res.trace("probe", -1, "layout probe selected %s", first)
	}

	chain := []string{first}
	for _, name := range fallbackOrder {
		if name != first {
			chain = append(chain, name)
		}
	}

	var reasons []string
	for _, name := range chain {
		s, _ := StrategyByName(name)
		sr := s.Pair(lines)
		res.Trace = append(res.Trace, sr.Trace...)
		if sr.Success && len(sr.Items) > 0 {
			return sr, true
		}
		reason := sr.Reason
		if sr.Success {
			reason = "no pairs"
		}
		reasons = append(reasons, fmt.Sprintf("%s: %s", name, reason))
		res.trace("fallback", -1, "%s produced nothing (%s)", name, reason)
	}
	res.Reason = ReasonNoItems + " (" + strings.Join(reasons, "; ") + ")"
	return StrategyResult{}, false
}

func (r *Result) trace(stage string, line int, format string, args ...any) {
	r.Trace = append(r.Trace, TraceEvent{Stage: stage, Line: line, Message: fmt.Sprintf(format, args...)})
}

func meanConfidence(dets []entity.RawDetection) float64 {
	if len(dets) == 0 {
		return 1
	}
	sum := 0.0
	for _, d := range dets {
		sum += d.Confidence
	}
	return sum / float64(len(dets))
}
