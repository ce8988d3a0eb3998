// Package save edits Disney Dreamlight Valley profile files: it locates,
// decrypts, decompresses, and parses a save into an editable model, then
// losslessly re-serializes it, preserving every field the editor does not
// understand.
//
// # Pipeline
//
// A save file is a layered transform: AES-ECB ciphertext around an optional
// ZIP/Deflate container around UTF-8 JSON. Loading peels the layers in that
// order, guided by a heuristic classifier; saving re-applies them
// symmetrically. The parsed JSON tree is retained verbatim, and editing
// writes back only the fields the model owns, so unmodeled keys survive an
// edit-and-resave cycle untouched.
//
// # Basic Usage
//
//	svc := save.NewService(save.Config{})
//
//	sess, err := svc.AutoLoad(ctx, "")
//	if err != nil { ... }
//
//	sess.Data().PlayerLevel = 30
//	sess.Data().SetCurrency(save.CurrencyStarCoins, 50000)
//
//	if err := sess.Save(ctx); err != nil { ... }
//
// Each Session owns one loaded document. The codec holds no shared mutable
// state across sessions, but load/save calls against a single session must
// be serialized by the caller.
package save

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
)

// Service is the entry point for loading save files. It carries the
// configuration and backup manager shared by the sessions it opens.
type Service struct {
	cfg     Config
	backups *BackupManager
}

// NewService creates a Service. Zero-value Config fields fall back to
// working defaults.
func NewService(cfg Config) *Service {
	return &Service{
		cfg:     cfg,
		backups: NewBackupManager(cfg.BackupDir, cfg.MaxBackups),
	}
}

// Backups exposes the service's backup manager for collaborator UIs.
func (s *Service) Backups() *BackupManager {
	return s.backups
}

// Session is one loaded save document: the editable model, the retained
// raw tree behind it, and the layering detected on load so a save can
// re-apply it symmetrically. Sessions replace any notion of global
// current-file state; open as many as needed, one per document.
type Session struct {
	id        uuid.UUID
	path      string
	key       []byte
	encrypted bool
	data      *SaveData
	service   *Service
}

// ID returns the session's identity.
func (s *Session) ID() uuid.UUID { return s.id }

// Path returns the file this session was loaded from.
func (s *Session) Path() string { return s.path }

// Encrypted reports whether the file was encrypted on load; a save will
// re-encrypt with the same key.
func (s *Session) Encrypted() bool { return s.encrypted }

// Data returns the editable model. Mutate it in place, then Save.
func (s *Session) Data() *SaveData { return s.data }

// Load reads, classifies, decrypts, unwraps, and parses the save file at
// path into a new Session. hexKey is required when the file is encrypted;
// for plain files it is retained so a later encrypted save can reuse it.
// A backup snapshot is taken unconditionally before any interpretation.
func (s *Service) Load(ctx context.Context, path, hexKey string) (*Session, error) {
	start := time.Now()
	emitLoadStart(ctx, path)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = newLoadError(ErrFileNotFound, path, "read", err)
		} else {
			err = fmt.Errorf("load %s: read: %w", path, err)
		}
		emitLoadComplete(ctx, path, "", 0, time.Since(start), err)
		return nil, err
	}

	// The file is never touched without a preserved copy, even when the
	// load goes on to fail classification or decryption.
	if backupPath, berr := s.backups.Snapshot(ctx, path); berr != nil {
		emitBackupFailed(ctx, path, berr)
	} else {
		emitBackupCreated(ctx, path, backupPath)
	}

	class := Classify(raw)

	var key []byte
	data := raw
	if class == LikelyEncrypted {
		if hexKey == "" {
			err := newLoadError(ErrKeyRequired, path, "classify", nil)
			emitLoadComplete(ctx, path, class, len(raw), time.Since(start), err)
			return nil, err
		}
		key, err = DecodeKey(hexKey)
		if err != nil {
			err = newLoadError(ErrMalformedKey, path, "key", err)
			emitLoadComplete(ctx, path, class, len(raw), time.Since(start), err)
			return nil, err
		}
		enc, err := AESECB(key)
		if err != nil {
			err = newLoadError(ErrInvalidKeySize, path, "key", err)
			emitLoadComplete(ctx, path, class, len(raw), time.Since(start), err)
			return nil, err
		}
		data, err = enc.Decrypt(raw)
		if err != nil {
			err = newLoadError(ErrDecryptionFailed, path, "decrypt", err)
			emitLoadComplete(ctx, path, class, len(raw), time.Since(start), err)
			return nil, err
		}
	} else if hexKey != "" {
		key, err = DecodeKey(hexKey)
		if err != nil {
			err = newLoadError(ErrMalformedKey, path, "key", err)
			emitLoadComplete(ctx, path, class, len(raw), time.Since(start), err)
			return nil, err
		}
	}

	text, ok := Unwrap(data)
	if !ok {
		text = decodeText(data)
	}

	doc, err := ParseDocument(text)
	if err != nil {
		// After decryption a parse failure means the key was wrong or the
		// file is corrupt; the two are indistinguishable at this layer.
		if class == LikelyEncrypted {
			err = newLoadError(ErrDecryptionFailed, path, "parse", err)
		} else {
			err = newLoadError(ErrInvalidJSON, path, "parse", err)
		}
		emitLoadComplete(ctx, path, class, len(raw), time.Since(start), err)
		return nil, err
	}

	sess := &Session{
		id:        uuid.New(),
		path:      path,
		key:       key,
		encrypted: class == LikelyEncrypted,
		data:      Project(doc),
		service:   s,
	}

	emitSessionCreated(ctx, sess.id.String(), path, class)
	emitLoadComplete(ctx, path, class, len(raw), time.Since(start), nil)
	return sess, nil
}

// AutoLoad discovers the most recently modified save under the configured
// (or platform default) directory and loads it. When no key is supplied
// the well-known default key is tried, so most retail saves open without
// prompting; a DecryptionFailed result means the caller should ask a human
// for the real key.
func (s *Service) AutoLoad(ctx context.Context, hexKey string) (*Session, error) {
	path, ok := FindLatestSave(s.cfg.SaveDir)
	if !ok {
		return nil, newLoadError(ErrFileNotFound, s.cfg.SaveDir, "locate", nil)
	}
	if hexKey == "" {
		hexKey = s.cfg.DefaultKey
	}
	if hexKey == "" {
		hexKey = DefaultHexKey
	}
	return s.Load(ctx, path, hexKey)
}

// Save reconciles the model into the retained raw tree and writes the file
// back with the same layering detected on load.
func (s *Session) Save(ctx context.Context) error {
	return s.SaveTo(ctx, s.path)
}

// SaveTo is Save targeting a different path. The write goes through a
// temporary sibling file and a rename, so a failed save leaves both the
// destination and the in-memory model intact.
func (s *Session) SaveTo(ctx context.Context, path string) error {
	start := time.Now()
	emitSaveStart(ctx, path)

	out, err := s.encode()
	if err != nil {
		emitSaveComplete(ctx, path, 0, time.Since(start), err)
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if backupPath, berr := s.service.backups.Snapshot(ctx, path); berr != nil {
			emitBackupFailed(ctx, path, berr)
		} else {
			emitBackupCreated(ctx, path, backupPath)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		err = newSaveError(ErrWriteFailed, path, err)
		emitSaveComplete(ctx, path, len(out), time.Since(start), err)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		err = newSaveError(ErrWriteFailed, path, err)
		emitSaveComplete(ctx, path, len(out), time.Since(start), err)
		return err
	}

	emitSaveComplete(ctx, path, len(out), time.Since(start), nil)
	return nil
}

// encode runs the write-side transform chain: reconcile, compact JSON,
// then compression and encryption as the load-time layering dictates.
func (s *Session) encode() ([]byte, error) {
	doc := Reconcile(s.data)
	jsonBytes, err := EncodeDocument(doc)
	if err != nil {
		return nil, newSaveError(ErrWriteFailed, s.path, err)
	}

	if s.encrypted && len(s.key) > 0 {
		wrapped, err := Wrap(string(jsonBytes))
		if err != nil {
			return nil, newSaveError(ErrWriteFailed, s.path, err)
		}
		enc, err := AESECB(s.key)
		if err != nil {
			return nil, newSaveError(ErrInvalidKeySize, s.path, err)
		}
		return enc.Encrypt(wrapped)
	}

	if shouldCompress(len(jsonBytes), s.encrypted) {
		return Wrap(string(jsonBytes))
	}
	return jsonBytes, nil
}

// Restore snapshots the current file, copies a backup over it, and reloads
// the session in place with the session's key.
func (s *Session) Restore(ctx context.Context, backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		err = newLoadError(ErrFileNotFound, backupPath, "restore", err)
		emitRestoreComplete(ctx, s.path, backupPath, err)
		return err
	}

	if bp, err := s.service.backups.Snapshot(ctx, s.path); err != nil {
		emitBackupFailed(ctx, s.path, err)
	} else {
		emitBackupCreated(ctx, s.path, bp)
	}

	if err := copyFile(backupPath, s.path); err != nil {
		err = newSaveError(ErrWriteFailed, s.path, err)
		emitRestoreComplete(ctx, s.path, backupPath, err)
		return err
	}

	hexKey := ""
	if len(s.key) > 0 {
		hexKey = EncodeKey(s.key)
	}
	restored, err := s.service.Load(ctx, s.path, hexKey)
	if err != nil {
		emitRestoreComplete(ctx, s.path, backupPath, err)
		return err
	}

	s.key = restored.key
	s.encrypted = restored.encrypted
	s.data = restored.data
	emitRestoreComplete(ctx, s.path, backupPath, nil)
	return nil
}
