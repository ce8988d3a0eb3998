package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(Config{
		BackupDir:  filepath.Join(t.TempDir(), "backups"),
		MaxBackups: 5,
	})
}

func writeSaveFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// sessionProfile is roundTripProfile with a long varied filler field, so
// its ciphertext comfortably clears the entropy classifier's sample size.
func sessionProfile() string {
	var filler strings.Builder
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&filler, "%03x", i*7)
	}
	return `{"Player":{"Name":"Ava","Level":5,` +
		`"CurrencyAmounts":{"80000000":100,"80300000":0,"80000009":0,"80000003":0,"80200002":0},` +
		`"Pets":[],"ListInventories":{},` +
		`"Journal":"` + filler.String() + `"},` +
		`"GameInfo":{"Version":"1.9.0"},"Version":"3"}`
}

func encryptProfile(t *testing.T, text string) []byte {
	t.Helper()
	enc, err := AESECB(testCipherKey)
	if err != nil {
		t.Fatalf("AESECB() error: %v", err)
	}
	out, err := enc.Encrypt([]byte(text))
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	return out
}

func TestService_LoadPlainFile(t *testing.T) {
	svc := newTestService(t)
	path := writeSaveFile(t, t.TempDir(), "profile.json", []byte(roundTripProfile))

	sess, err := svc.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if sess.Encrypted() {
		t.Error("plain file must not load as encrypted")
	}
	if sess.Path() != path {
		t.Errorf("Path() = %q, want %q", sess.Path(), path)
	}
	if got := sess.Data().PlayerName; got != "Ava" {
		t.Errorf("PlayerName = %q, want Ava", got)
	}
	if got := sess.Data().Currency(CurrencyStarCoins); got != 100 {
		t.Errorf("star coins = %d, want 100", got)
	}

	backups, err := svc.Backups().List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected one snapshot after load, got %d", len(backups))
	}
}

func TestSession_EditAndSave(t *testing.T) {
	svc := newTestService(t)
	path := writeSaveFile(t, t.TempDir(), "profile.json", []byte(roundTripProfile))

	sess, err := svc.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	sess.Data().PlayerLevel = 7
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	got := string(written)
	if !strings.Contains(got, `"Level":7`) {
		t.Error("edited level missing from saved file")
	}
	if !strings.Contains(got, `"Name":"Ava"`) {
		t.Error("untouched name must survive a save")
	}
	if !strings.Contains(got, `"Telemetry":{"Sessions":9}`) {
		t.Error("unmodeled block lost across load/save")
	}

	// Load snapshot plus pre-save snapshot; same second means the second
	// overwrites the first, so either count is acceptable.
	backups, err := svc.Backups().List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) == 0 {
		t.Error("expected a snapshot before overwrite")
	}
}

func TestService_LoadEncryptedRoundTrip(t *testing.T) {
	svc := newTestService(t)
	profile := sessionProfile()
	path := writeSaveFile(t, t.TempDir(), "profile.json", encryptProfile(t, profile))

	sess, err := svc.Load(context.Background(), path, EncodeKey(testCipherKey))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !sess.Encrypted() {
		t.Fatal("ciphertext must load as encrypted")
	}
	if got := sess.Data().PlayerName; got != "Ava" {
		t.Errorf("PlayerName = %q, want Ava", got)
	}

	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	enc, err := AESECB(testCipherKey)
	if err != nil {
		t.Fatalf("AESECB() error: %v", err)
	}
	plain, err := enc.Decrypt(written)
	if err != nil {
		t.Fatalf("Decrypt() on saved file: %v", err)
	}
	text, ok := Unwrap(plain)
	if !ok {
		t.Fatal("saved encrypted file must carry a container layer")
	}
	if text != profile {
		t.Errorf("encrypted round trip diverged:\n got %s\nwant %s", text, profile)
	}
}

func TestService_Load_KeyRequired(t *testing.T) {
	svc := newTestService(t)
	path := writeSaveFile(t, t.TempDir(), "profile.json", encryptProfile(t, sessionProfile()))

	_, err := svc.Load(context.Background(), path, "")
	if !errors.Is(err, ErrKeyRequired) {
		t.Errorf("expected ErrKeyRequired, got %v", err)
	}

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatal("expected a *LoadError")
	}
	if le.Hint() == "" {
		t.Error("key-required error must carry a recovery hint")
	}
}

func TestService_Load_WrongKey(t *testing.T) {
	svc := newTestService(t)
	path := writeSaveFile(t, t.TempDir(), "profile.json", encryptProfile(t, sessionProfile()))

	wrong := EncodeKey([]byte("another-32-byte-key-not-the-one!"))
	_, err := svc.Load(context.Background(), path, wrong)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestService_Load_MalformedKey(t *testing.T) {
	svc := newTestService(t)
	path := writeSaveFile(t, t.TempDir(), "profile.json", encryptProfile(t, sessionProfile()))

	_, err := svc.Load(context.Background(), path, "zz-not-hex")
	if !errors.Is(err, ErrMalformedKey) {
		t.Errorf("expected ErrMalformedKey, got %v", err)
	}
}

func TestService_Load_FileNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestService_AutoLoad(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "steam_1"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeSaveFile(t, filepath.Join(base, "steam_1"), ProfileFileName, []byte(roundTripProfile))

	svc := NewService(Config{
		BackupDir:  filepath.Join(t.TempDir(), "backups"),
		MaxBackups: 5,
		SaveDir:    base,
	})

	sess, err := svc.AutoLoad(context.Background(), "")
	if err != nil {
		t.Fatalf("AutoLoad() error: %v", err)
	}
	if want := filepath.Join(base, "steam_1", ProfileFileName); sess.Path() != want {
		t.Errorf("Path() = %q, want %q", sess.Path(), want)
	}
	if got := sess.Data().PlayerName; got != "Ava" {
		t.Errorf("PlayerName = %q, want Ava", got)
	}
}

func TestService_AutoLoad_NoSaves(t *testing.T) {
	svc := NewService(Config{
		BackupDir: filepath.Join(t.TempDir(), "backups"),
		SaveDir:   t.TempDir(),
	})

	_, err := svc.AutoLoad(context.Background(), "")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestSession_SaveTo(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	path := writeSaveFile(t, dir, "profile.json", []byte(roundTripProfile))

	sess, err := svc.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	sess.Data().PlayerLevel = 9
	out := filepath.Join(dir, "edited.json")
	if err := sess.SaveTo(context.Background(), out); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	edited, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read edited file: %v", err)
	}
	if !strings.Contains(string(edited), `"Level":9`) {
		t.Error("edited copy missing the new level")
	}

	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	if string(original) != roundTripProfile {
		t.Error("SaveTo must not touch the original file")
	}
}

func TestSession_Restore(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	path := writeSaveFile(t, dir, "profile.json", []byte(roundTripProfile))
	pristine := writeSaveFile(t, dir, "pristine.json", []byte(roundTripProfile))

	sess, err := svc.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	sess.Data().PlayerLevel = 30
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if err := sess.Restore(context.Background(), pristine); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if got := sess.Data().PlayerLevel; got != 5 {
		t.Errorf("restored level = %d, want 5", got)
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read restored file: %v", err)
	}
	if string(current) != roundTripProfile {
		t.Error("restore must copy the backup over the save file")
	}
}

func TestSession_Restore_MissingBackup(t *testing.T) {
	svc := newTestService(t)
	path := writeSaveFile(t, t.TempDir(), "profile.json", []byte(roundTripProfile))

	sess, err := svc.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	err = sess.Restore(context.Background(), filepath.Join(t.TempDir(), "gone.json"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}
