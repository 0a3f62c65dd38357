package constants

import "strings"

// Pairing strategy names.
const (
	StrategyAuto      = "auto"
	StrategyAdjacency = "adjacency"
	StrategyTable     = "table"
	StrategyColumn    = "column"
)

// ImageExtensions holds the image types the tesseract adapter accepts.
var ImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
}

// PayloadExtensions are files treated as an already-recognized OCR payload.
var PayloadExtensions = map[string]struct{}{
	"json": {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImageExt reports whether ext (with or without the dot) is a supported image type.
func IsImageExt(ext string) bool {
	_, ok := ImageExtensions[NormalizeExt(ext)]
	return ok
}

// IsPayloadExt reports whether ext names a JSON/plain-text OCR payload.
func IsPayloadExt(ext string) bool {
	_, ok := PayloadExtensions[NormalizeExt(ext)]
	return ok
}
