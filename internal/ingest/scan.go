package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/common"
)

// File is one discovered receipt input.
type File struct {
	Path         string `json:"path"`
	HashHex      string `json:"sha256"`
	Deduplicated bool   `json:"deduplicated,omitempty"`
	Err          string `json:"error,omitempty"`
}

type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Deduplicated uint32
	Failed       uint32
}

// Supported reports whether path is an OCR payload (json, txt) or an image tesseract can read.
func Supported(path string) bool {
	ext := filepath.Ext(path)
	return constants.IsPayloadExt(ext) || constants.IsImageExt(ext)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// ScanDirectory walks root and returns every supported file. Files whose content hash was already
// seen in this scan are marked Deduplicated. Per-file failures are recorded and the walk continues.
func ScanDirectory(root string, skipHidden bool, logger *slog.Logger) ([]File, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var files []File
	var stats DirStats
	seen := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			files = append(files, File{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		stats.Matched++

		sum, err := HashFile(path)
		if err != nil {
			files = append(files, File{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		f := File{Path: path, HashHex: sum}
		if first, dup := seen[sum]; dup {
			logger.Debug("duplicate receipt content", "path", path, "first", first)
			f.Deduplicated = true
			stats.Deduplicated++
		} else {
			seen[sum] = path
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return files, stats, common.WrapError(err, "walk")
	}

	logger.Info("ingest.scan.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return files, stats, nil
}

// HashFile returns the hex sha256 of the file contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
