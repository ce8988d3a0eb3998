package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	save "github.com/zoobzio/dreamsave"
	savetest "github.com/zoobzio/dreamsave/testing"
)

func newService(t *testing.T) *save.Service {
	t.Helper()
	return save.NewService(save.Config{
		BackupDir:  filepath.Join(t.TempDir(), "backups"),
		MaxBackups: 5,
	})
}

func writeFixture(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// paddedProfile extends the minimal fixture with a long varied journal so
// its ciphertext is large enough for the entropy classifier.
func paddedProfile() string {
	var filler strings.Builder
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&filler, "%03x", i*11)
	}
	return `{"Player":{"Name":"Ava","Level":5,` +
		`"CurrencyAmounts":{"80000000":100,"80300000":250,"80000009":0,"80000003":7,"80200002":3},` +
		`"Pets":[],"ListInventories":{},` +
		`"Journal":"` + filler.String() + `"},` +
		`"GameInfo":{"Version":"1.9.0"},"Version":"12"}`
}

func TestPipeline_PlainUntouchedRoundTrip(t *testing.T) {
	svc := newService(t)
	path := writeFixture(t, []byte(savetest.MinimalProfile))

	sess, err := svc.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(written) != savetest.MinimalProfile {
		t.Errorf("untouched round trip diverged:\n got %s\nwant %s", written, savetest.MinimalProfile)
	}
}

func TestPipeline_EncryptedUntouchedRoundTrip(t *testing.T) {
	svc := newService(t)
	profile := paddedProfile()

	ciphertext, err := savetest.TestEncryptor().Encrypt([]byte(profile))
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	path := writeFixture(t, ciphertext)

	sess, err := svc.Load(context.Background(), path, savetest.TestHexKey())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !sess.Encrypted() {
		t.Fatal("ciphertext fixture must load as encrypted")
	}
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	plain, err := savetest.TestEncryptor().Decrypt(written)
	if err != nil {
		t.Fatalf("Decrypt() on saved file: %v", err)
	}
	text, ok := save.Unwrap(plain)
	if !ok {
		t.Fatal("saved encrypted file must carry a container layer")
	}
	if text != profile {
		t.Errorf("encrypted round trip diverged:\n got %s\nwant %s", text, profile)
	}
}

func TestPipeline_EditPersistsAcrossReload(t *testing.T) {
	svc := newService(t)
	path := writeFixture(t, []byte(savetest.MinimalProfile))

	sess, err := svc.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	sess.Data().SetCurrency(save.CurrencyStarCoins, 50000)
	sess.Data().PlayerLevel = 30
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := svc.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if got := reloaded.Data().Currency(save.CurrencyStarCoins); got != 50000 {
		t.Errorf("star coins = %d, want 50000", got)
	}
	if got := reloaded.Data().PlayerLevel; got != 30 {
		t.Errorf("level = %d, want 30", got)
	}
	if got := reloaded.Data().PlayerName; got != "Ava" {
		t.Errorf("name = %q, want Ava", got)
	}
}

func TestPipeline_UnmodeledKeysSurviveEdit(t *testing.T) {
	svc := newService(t)
	path := writeFixture(t, []byte(savetest.UnmodeledProfile))

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
	for _, fragment := range []string{
		`"99999999":42`,
		`"UnknownBlock":{"Nested":{"Deep":true}}`,
		`"Telemetry":{"Sessions":9}`,
		`"Level":7`,
	} {
		if !strings.Contains(string(written), fragment) {
			t.Errorf("fragment lost across pipeline: %s", fragment)
		}
	}
}
