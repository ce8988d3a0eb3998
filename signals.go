package save

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for save pipeline events.
var (
	SignalSessionCreated  = capitan.NewSignal("save.session.created", "Save session opened")
	SignalLoadStart       = capitan.NewSignal("save.load.start", "Load operation beginning")
	SignalLoadComplete    = capitan.NewSignal("save.load.complete", "Load operation finished")
	SignalSaveStart       = capitan.NewSignal("save.save.start", "Save operation beginning")
	SignalSaveComplete    = capitan.NewSignal("save.save.complete", "Save operation finished")
	SignalBackupCreated   = capitan.NewSignal("save.backup.created", "Backup snapshot written")
	SignalBackupFailed    = capitan.NewSignal("save.backup.failed", "Backup snapshot failed")
	SignalBackupPruned    = capitan.NewSignal("save.backup.pruned", "Old backups removed")
	SignalRestoreComplete = capitan.NewSignal("save.restore.complete", "Backup restore finished")
)

// Keys for typed event data.
var (
	KeyPath           = capitan.NewStringKey("path")
	KeyBackupPath     = capitan.NewStringKey("backup_path")
	KeySessionID      = capitan.NewStringKey("session_id")
	KeyClassification = capitan.NewStringKey("classification")
	KeySize           = capitan.NewIntKey("size")
	KeyRemoved        = capitan.NewIntKey("removed")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
)

// emitSessionCreated emits an event when a session is opened.
func emitSessionCreated(ctx context.Context, sessionID, path string, class Classification) {
	capitan.Emit(ctx, SignalSessionCreated,
		KeySessionID.Field(sessionID),
		KeyPath.Field(path),
		KeyClassification.Field(string(class)),
	)
}

// emitLoadStart emits an event when a load begins.
func emitLoadStart(ctx context.Context, path string) {
	capitan.Emit(ctx, SignalLoadStart,
		KeyPath.Field(path),
	)
}

// emitLoadComplete emits an event when a load finishes.
func emitLoadComplete(ctx context.Context, path string, class Classification, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyPath.Field(path),
		KeyClassification.Field(string(class)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}

// emitSaveStart emits an event when a save begins.
func emitSaveStart(ctx context.Context, path string) {
	capitan.Emit(ctx, SignalSaveStart,
		KeyPath.Field(path),
	)
}

// emitSaveComplete emits an event when a save finishes.
func emitSaveComplete(ctx context.Context, path string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyPath.Field(path),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSaveComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSaveComplete, fields...)
	}
}

// emitBackupCreated emits an event when a snapshot is written.
func emitBackupCreated(ctx context.Context, path, backupPath string) {
	capitan.Emit(ctx, SignalBackupCreated,
		KeyPath.Field(path),
		KeyBackupPath.Field(backupPath),
	)
}

// emitBackupFailed emits an event when a snapshot or prune fails.
// Backup failures are never fatal, so a signal is all that surfaces.
func emitBackupFailed(ctx context.Context, path string, err error) {
	capitan.Error(ctx, SignalBackupFailed,
		KeyPath.Field(path),
		KeyError.Field(err),
	)
}

// emitBackupPruned emits an event when retention pruning removes files.
func emitBackupPruned(ctx context.Context, dir string, removed int) {
	capitan.Emit(ctx, SignalBackupPruned,
		KeyPath.Field(dir),
		KeyRemoved.Field(removed),
	)
}

// emitRestoreComplete emits an event when a backup restore finishes.
func emitRestoreComplete(ctx context.Context, path, backupPath string, err error) {
	fields := []capitan.Field{
		KeyPath.Field(path),
		KeyBackupPath.Field(backupPath),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRestoreComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRestoreComplete, fields...)
	}
}
