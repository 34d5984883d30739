package pipeline

import (
	"path/filepath"

	"github.com/google/uuid"

	"hauler/internal"
)

// ScanBatch recognises and extracts each path in order. A failing item is
// recorded with zero confidence and the batch carries on. progress, when
// set, receives the completed percentage after every item.
func ScanBatch(paths []string, rec Recognizer, ex *Extractor, progress func(percent int)) []internal.ScanResult {
	results := make([]internal.ScanResult, 0, len(paths))
	for i, path := range paths {
		result := internal.ScanResult{ID: uuid.NewString(), Filename: filepath.Base(path)}

		text, confidence, err := rec.Recognize(path)
		if err != nil {
			result.Err = err.Error()
		} else {
			result.Text = text
			result.Confidence = confidence
			if text != "" {
				parsed := ex.ExtractMission(text)
				result.Parsed = &parsed
			}
		}
		results = append(results, result)

		if progress != nil {
			progress((i + 1) * 100 / len(paths))
		}
	}
	return results
}

// ParsedResults keeps the parsed missions worth importing. A result with
// no segments is dropped even when it found a payout.
func ParsedResults(results []internal.ScanResult) []internal.ParsedMission {
	out := []internal.ParsedMission{}
	for _, r := range results {
		if r.Parsed == nil {
			continue
		}
		if len(r.Parsed.Segments) == 0 {
			continue
		}
		out = append(out, *r.Parsed)
	}
	return out
}
