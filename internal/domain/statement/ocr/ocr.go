// Package ocr defines the contract to the text-recognition engine and the
// anchor-matching helpers parsers use over its noisy output. The engine
// itself (model load, image enhancement) lives in a sidecar process;
// this package only ever sees ordered recognized text.
package ocr

import (
	"context"
	"errors"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrNoContent reports an image with no transaction-like content at all.
// Batch callers treat it as a per-item failure and keep processing siblings.
var ErrNoContent = errors.New("no recognizable transaction content in image")

// ReadOptions tune a single recognition pass.
type ReadOptions struct {
	// Paragraph groups nearby fragments into reading-order paragraphs,
	// trading per-character confidence for contextual disambiguation.
	Paragraph bool
	// BeamWidth widens the decoder's beam search; zero keeps the engine
	// default.
	BeamWidth int
	// Enhance runs the grayscale + local-contrast front end before
	// recognition to reduce digit/letter confusion.
	Enhance bool
}

// Recognizer is the black-box text-recognition engine: an ordered sequence
// of recognized strings per image. Initialized once at process start and
// passed by handle into parsers.
type Recognizer interface {
	ReadText(ctx context.Context, image []byte, opts ReadOptions) ([]string, error)
}

// anchorDistance is the per-rune Levenshtein budget when locating a label
// token in recognized text. CJK labels are short, so one confusion is the
// most the match can absorb.
const anchorDistance = 1

// FindAnchor locates the segment containing the given label token, tolerating
// recognition noise. Returns the segment index or -1.
func FindAnchor(segments []string, label string) int {
	for i, seg := range segments {
		if fuzzy.Match(label, seg) {
			return i
		}
	}
	// Second pass with an edit-distance budget for confused characters.
	best := -1
	bestDist := anchorDistance + 1
	for i, seg := range segments {
		if d := fuzzy.LevenshteinDistance(label, seg); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
