package save

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// ProfileFileName is the profile the game writes per platform directory.
const ProfileFileName = "profile.json"

// steamAppID is Disney Dreamlight Valley's Steam app id, used to reach the
// Proton prefix on Linux.
const steamAppID = "1401590"

// DefaultBaseDir returns the platform's game-data directory.
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "LocalLow", "Gameloft", "Disney Dreamlight Valley")
	default:
		return filepath.Join(home, ".local", "share", "Steam", "steamapps", "compatdata",
			steamAppID, "pfx", "drive_c", "users", "steamuser",
			"AppData", "LocalLow", "Gameloft", "Disney Dreamlight Valley")
	}
}

type saveCandidate struct {
	path     string
	modified time.Time
	size     int64
}

// FindLatestSave scans the immediate subdirectories of baseDir whose names
// start with "steam" or "windows" for a profile file and returns the one
// with the greatest modification time. When baseDir is empty the platform
// default is used. Returns false when the directory is missing or holds no
// candidates.
//
// Ties on modification time resolve to the first candidate in directory
// enumeration order; which one wins is unspecified, only that the choice
// is deterministic for a given directory state.
func FindLatestSave(baseDir string) (string, bool) {
	if baseDir == "" {
		baseDir = DefaultBaseDir()
	}

	dirEntries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", false
	}

	var candidates []saveCandidate
	for _, entry := range dirEntries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "steam") && !strings.HasPrefix(name, "windows") {
			continue
		}
		profile := filepath.Join(baseDir, name, ProfileFileName)
		info, err := os.Stat(profile)
		if err != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, saveCandidate{
			path:     profile,
			modified: info.ModTime(),
			size:     info.Size(),
		})
	}

	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].modified.After(candidates[j].modified)
	})
	return candidates[0].path, true
}

// DetectSaveFile checks well-known fixed locations for a profile file
// before falling back to the steam/windows directory scan.
func DetectSaveFile() (string, bool) {
	var fixed []string
	if home, err := os.UserHomeDir(); err == nil {
		fixed = append(fixed,
			filepath.Join(home, "AppData", "LocalLow", "Gameloft", "Disney Dreamlight Valley", ProfileFileName),
			filepath.Join(home, "Documents", "My Games", "Disney Dreamlight Valley", ProfileFileName),
		)
	}
	fixed = append(fixed, ProfileFileName)

	for _, path := range fixed {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return FindLatestSave("")
}
