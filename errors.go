package save

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrFileNotFound indicates the save file path does not exist.
	ErrFileNotFound = errors.New("save file not found")

	// ErrKeyRequired indicates the file is encrypted but no key was supplied.
	ErrKeyRequired = errors.New("decryption key required")

	// ErrMalformedKey indicates a hex key string failed to decode.
	ErrMalformedKey = errors.New("malformed hex key")

	// ErrInvalidKeySize indicates a key is not a valid AES key length.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidCiphertextLength indicates ciphertext is not block-aligned.
	ErrInvalidCiphertextLength = errors.New("invalid ciphertext length")

	// ErrDecryptionFailed indicates decryption produced unusable content.
	// A wrong key and a corrupted file are indistinguishable here: ECB
	// decryption always succeeds mechanically.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidJSON indicates the decoded text failed to parse as JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrBackupFailed indicates a backup snapshot could not be written.
	// Non-fatal: load and save proceed regardless.
	ErrBackupFailed = errors.New("backup failed")

	// ErrWriteFailed indicates an I/O error while writing the save file.
	ErrWriteFailed = errors.New("write failed")
)

// LoadError represents a failure in the load pipeline.
// It wraps a sentinel error with the path and pipeline stage that failed.
type LoadError struct {
	Err   error  // Underlying sentinel error (ErrKeyRequired, ErrInvalidJSON, etc.)
	Path  string // Save file path being loaded
	Stage string // Pipeline stage that failed (read, key, decrypt, parse)
	Cause error  // Original error from the underlying operation
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Err.Error(), e.Cause)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Err.Error())
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Hint returns a human-readable recovery suggestion for the failure,
// distinct enough to tell a caller whether to retry with a different key,
// pick a different file, or treat the file as corrupt.
func (e *LoadError) Hint() string {
	switch {
	case errors.Is(e.Err, ErrFileNotFound):
		return "pick a different file"
	case errors.Is(e.Err, ErrKeyRequired), errors.Is(e.Err, ErrMalformedKey), errors.Is(e.Err, ErrInvalidKeySize):
		return "supply a valid hex decryption key"
	case errors.Is(e.Err, ErrDecryptionFailed), errors.Is(e.Err, ErrInvalidCiphertextLength):
		return "retry with a different key; if that fails the file may be corrupt"
	case errors.Is(e.Err, ErrInvalidJSON):
		return "the file is not a valid save; restore a backup"
	default:
		return "retry or restore a backup"
	}
}

// SaveError represents a failure in the save pipeline.
type SaveError struct {
	Err   error  // Underlying sentinel error (ErrWriteFailed, etc.)
	Path  string // Destination path being written
	Cause error  // Original error from the underlying operation
}

func (e *SaveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("save %s: %s: %v", e.Path, e.Err.Error(), e.Cause)
	}
	return fmt.Sprintf("save %s: %s", e.Path, e.Err.Error())
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// newLoadError creates a LoadError for load pipeline failures.
func newLoadError(sentinel error, path, stage string, cause error) error {
	return &LoadError{
		Err:   sentinel,
		Path:  path,
		Stage: stage,
		Cause: cause,
	}
}

// newSaveError creates a SaveError for save pipeline failures.
func newSaveError(sentinel error, path string, cause error) error {
	return &SaveError{
		Err:   sentinel,
		Path:  path,
		Cause: cause,
	}
}
