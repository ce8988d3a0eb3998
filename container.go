package save

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// containerEntryName is the archive entry a wrapped payload is stored under.
// Unwrap does not rely on it; real saves carry arbitrary entry names.
const containerEntryName = "profile.json"

// compressThreshold is the serialized size above which an unencrypted save
// is written compressed rather than as plain text.
const compressThreshold = 50000

// Unwrap extracts the JSON text from a container. A ZIP archive yields its
// first entry in stored order; otherwise a raw gzip stream is attempted.
// Returns false when the bytes are neither, so the caller treats them as
// plain text. Unwrap never fails outright.
func Unwrap(data []byte) (string, bool) {
	if bytes.HasPrefix(data, zipSignature) {
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil || len(zr.File) == 0 {
			return "", false
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			return "", false
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return "", false
		}
		return string(content), true
	}

	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	defer gr.Close()
	content, err := io.ReadAll(gr)
	if err != nil {
		return "", false
	}
	return string(content), true
}

// Wrap packs text into a ZIP archive holding a single Deflate-compressed
// entry, mirroring the container layer the game applies before encryption.
func Wrap(text string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(containerEntryName)
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("create container entry: %w", err)
	}
	if _, err := w.Write([]byte(text)); err != nil {
		zw.Close()
		return nil, fmt.Errorf("write container entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close container: %w", err)
	}
	return buf.Bytes(), nil
}

// shouldCompress decides whether an unencrypted write is compressed:
// compress when the document arrived encrypted or the serialized form
// exceeds the size threshold. A small originally-zipped file legitimately
// comes back as plain text under this rule.
func shouldCompress(serializedSize int, wasEncrypted bool) bool {
	return wasEncrypted || serializedSize > compressThreshold
}
