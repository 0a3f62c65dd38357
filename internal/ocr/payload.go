package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

// wirePayload mirrors the input contract; vertex coordinates may arrive as floats.
type wirePayload struct {
	Text       string `json:"text"`
	Detections []struct {
		Text         string  `json:"text"`
		Confidence   float64 `json:"confidence"`
		BoundingPoly struct {
			Vertices []struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"vertices"`
		} `json:"boundingPoly"`
	} `json:"detections"`
}

// DecodePayload validates data against the OCR input schema and decodes it.
func DecodePayload(data []byte) (entity.OCRPayload, error) {
	schema, err := compiledPayloadSchema()
	if err != nil {
		return entity.OCRPayload{}, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return entity.OCRPayload{}, common.NewAppError(common.CodeInvalidFormat, "OCR payload is not valid JSON", err)
	}
	if err := schema.Validate(v); err != nil {
		return entity.OCRPayload{}, common.NewAppError(common.CodeInvalidFormat, "OCR payload does not match schema", err)
	}

	var wire wirePayload
	if err := json.Unmarshal(data, &wire); err != nil {
		return entity.OCRPayload{}, common.NewAppError(common.CodeInvalidFormat, "decode OCR payload", err)
	}
	out := entity.OCRPayload{Text: wire.Text}
	for _, d := range wire.Detections {
		det := entity.RawDetection{Text: d.Text, Confidence: d.Confidence}
		for _, vx := range d.BoundingPoly.Vertices {
			det.BoundingPoly.Vertices = append(det.BoundingPoly.Vertices, entity.Vertex{
				X: int(math.Round(vx.X)),
				Y: int(math.Round(vx.Y)),
			})
		}
		out.Detections = append(out.Detections, det)
	}
	return out, nil
}

// LoadPayload reads an OCR payload from disk: JSON files are decoded and validated, plain-text
// files become the payload text. Images go through the Extractor when one is given.
func LoadPayload(ctx context.Context, path string, extractor *Extractor) (entity.OCRPayload, error) {
	ext := filepath.Ext(path)
	switch {
	case constants.NormalizeExt(ext) == "json":
		data, err := os.ReadFile(path)
		if err != nil {
			return entity.OCRPayload{}, err
		}
		return DecodePayload(data)
	case constants.IsPayloadExt(ext):
		data, err := os.ReadFile(path)
		if err != nil {
			return entity.OCRPayload{}, err
		}
		return entity.OCRPayload{Text: string(data)}, nil
	case constants.IsImageExt(ext):
		if extractor == nil {
			return entity.OCRPayload{}, common.NewAppError(common.CodeConfig, "no OCR extractor configured for images", nil)
		}
		res, err := extractor.Extract(ctx, path)
		if err != nil {
			return entity.OCRPayload{}, err
		}
		return res.Payload, nil
	}
	return entity.OCRPayload{}, common.InvalidFormat(fmt.Sprintf("unsupported input extension %q", ext))
}
