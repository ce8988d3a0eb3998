package save

import (
	"bytes"
	"math"
	"strings"
)

// Classification is the detected on-disk shape of a save file.
type Classification string

const (
	// PlainText is UTF-8 JSON with no compression or encryption layer.
	PlainText Classification = "plain-text"

	// ZipContainer is a ZIP archive wrapping the JSON payload.
	ZipContainer Classification = "zip-container"

	// LikelyEncrypted is high-entropy data, almost certainly AES ciphertext.
	LikelyEncrypted Classification = "likely-encrypted"
)

const (
	// classifySample bounds how much of the buffer the heuristics inspect.
	classifySample = 1024

	// entropyThreshold is the bits-per-byte cutoff above which a buffer is
	// treated as ciphertext.
	entropyThreshold = 7.5

	// minEntropySize is the smallest buffer the entropy estimate is
	// meaningful for; anything shorter is treated as plain text.
	minEntropySize = 50
)

var zipSignature = []byte("PK")

// Classify decides whether a byte buffer is plain JSON text, a ZIP
// container, or likely ciphertext. This is a heuristic, not a guarantee;
// callers must be prepared for misclassification and retry accordingly.
// Classify never fails.
func Classify(data []byte) Classification {
	sample := data
	if len(sample) > classifySample {
		sample = sample[:classifySample]
	}

	head := sample
	if len(head) > 100 {
		head = head[:100]
	}
	text := strings.TrimSpace(strings.ToValidUTF8(string(head), ""))
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return PlainText
	}

	if bytes.HasPrefix(sample, zipSignature) {
		return ZipContainer
	}

	if len(sample) < minEntropySize {
		return PlainText
	}
	if shannonEntropy(sample) > entropyThreshold {
		return LikelyEncrypted
	}
	return PlainText
}

// shannonEntropy estimates bits per byte over the byte-value histogram.
func shannonEntropy(data []byte) float64 {
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	entropy := 0.0
	n := float64(len(data))
	for _, c := range counts {
		if c == 0 {
			continue
		}
		f := float64(c) / n
		entropy -= f * math.Log2(f)
	}
	return entropy
}
