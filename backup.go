package save

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultBackupDir is the sibling directory snapshots land in.
	DefaultBackupDir = "backups"

	// DefaultMaxBackups is the retention count pruning keeps.
	DefaultMaxBackups = 10

	backupTimeLayout = "20060102_150405"
	backupMarker     = "_backup"
)

// BackupManager writes timestamped copies of save files before every
// destructive operation and prunes old copies beyond a retention count.
// Snapshot failures are advisory: callers log or signal them and proceed.
type BackupManager struct {
	dir        string
	maxBackups int
}

// BackupEntry describes one snapshot for collaborator UIs.
type BackupEntry struct {
	Path     string
	Name     string
	Size     int64
	Modified time.Time
}

// NewBackupManager creates a manager rooted at dir, keeping at most
// maxBackups snapshots. Zero values fall back to the defaults.
func NewBackupManager(dir string, maxBackups int) *BackupManager {
	if dir == "" {
		dir = DefaultBackupDir
	}
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}
	return &BackupManager{dir: dir, maxBackups: maxBackups}
}

// Dir returns the backup directory.
func (b *BackupManager) Dir() string {
	return b.dir
}

// Snapshot copies the file at path into the backup directory under
// <stem>_<YYYYMMDD_HHMMSS>_backup<ext>, then prunes old snapshots. Prune
// failures surface only as signals.
func (b *BackupManager) Snapshot(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create backup dir: %v", ErrBackupFailed, err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	name := fmt.Sprintf("%s_%s%s%s", stem, time.Now().Format(backupTimeLayout), backupMarker, ext)
	backupPath := filepath.Join(b.dir, name)

	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackupFailed, err)
	}

	b.prune(ctx)
	return backupPath, nil
}

// prune removes snapshots beyond the retention count, newest kept.
// Failures are reported via signals, never returned; a full backup
// directory must not block a load or save.
func (b *BackupManager) prune(ctx context.Context) {
	entries, err := b.List()
	if err != nil {
		emitBackupFailed(ctx, b.dir, err)
		return
	}

	removed := 0
	for _, entry := range entries[min(len(entries), b.maxBackups):] {
		if err := os.Remove(entry.Path); err != nil {
			emitBackupFailed(ctx, entry.Path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		emitBackupPruned(ctx, b.dir, removed)
	}
}

// List returns the snapshots in the backup directory, newest first.
func (b *BackupManager) List() ([]BackupEntry, error) {
	matches, err := filepath.Glob(filepath.Join(b.dir, "*"+backupMarker+".*"))
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	entries := make([]BackupEntry, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		entries = append(entries, BackupEntry{
			Path:     match,
			Name:     filepath.Base(match),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	return entries, nil
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
