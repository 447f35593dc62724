package domain

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
)

// LauncherFileName is the executable looked for inside each build directory.
var LauncherFileName = launcherFileName(runtime.GOOS)

func launcherFileName(goos string) string {
	switch goos {
	case "windows":
		return "blender-launcher.exe"
	case "darwin":
		return filepath.Join("Blender.app", "Contents", "MacOS", "Blender")
	default:
		return "blender"
	}
}

// Platform is the feed filter tuple for one operating system
type Platform struct {
	Bitness       int
	Platform      string
	Architecture  string
	FileExtension string
}

// CurrentPlatform returns the filter tuple for the running OS.
func CurrentPlatform() Platform {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) Platform {
	switch goos {
	case "windows":
		return Platform{Bitness: 64, Platform: "windows", Architecture: "amd64", FileExtension: "zip"}
	case "darwin":
		return Platform{Bitness: 64, Platform: "darwin", Architecture: "arm64", FileExtension: "dmg"}
	default:
		return Platform{Bitness: 64, Platform: "linux", Architecture: "x86_64", FileExtension: "xz"}
	}
}

// Matches reports whether a feed entry belongs to this platform.
func (p Platform) Matches(b DownloadableBuild) bool {
	return b.Bitness == p.Bitness &&
		b.Platform == p.Platform &&
		b.Architecture == p.Architecture &&
		b.FileExtension == p.FileExtension
}

// BlenderConfigRoot returns the directory holding one subdirectory per Blender
// series (e.g. "4.1"), each with config/recent-files.txt.
func BlenderConfigRoot() (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir, err := os.UserConfigDir() // %AppData%
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "Blender Foundation", "Blender"), nil
	case "darwin":
		dir, err := os.UserConfigDir() // ~/Library/Application Support
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "Blender"), nil
	default:
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "blender"), nil
	}
}

// RecentFilesManifest is the manifest path relative to a series directory.
var RecentFilesManifest = filepath.Join("config", "recent-files.txt")

// buildDirPattern matches directory names like blender-4.1.0-stable+main.abc123
var buildDirPattern = regexp.MustCompile(`blender-(\d+(?:\.\d+){1,2})-([^-+]+)`)

// ParseBuildDirName extracts version and variant from a build directory name.
// Names that do not match yield two empty strings.
func ParseBuildDirName(name string) (version, variant string) {
	m := buildDirPattern.FindStringSubmatch(name)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}
