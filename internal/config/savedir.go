package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// SaveDirEnv overrides the configured save directory.
const SaveDirEnv = "HYPRSHOT_DIR"

// ResolveSaveDir picks the directory screenshots are saved into: flag, then
// HYPRSHOT_DIR, then the rc file, then the XDG pictures directory, then ~/Pictures.
func (c *Config) ResolveSaveDir(flag string) string {
	for _, dir := range []string{flag, os.Getenv(SaveDirEnv), c.SaveDir} {
		if dir = strings.TrimSpace(dir); dir != "" {
			return expandHome(dir)
		}
	}
	return PicturesDir()
}

// PicturesDir returns XDG_PICTURES_DIR from the environment or from
// user-dirs.dirs, and ~/Pictures when neither sets it.
func PicturesDir() string {
	home, _ := os.UserHomeDir()
	if dir := strings.TrimSpace(os.Getenv("XDG_PICTURES_DIR")); dir != "" {
		return expandHome(os.ExpandEnv(dir))
	}
	if dir := userDir(home, "XDG_PICTURES_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(home, "Pictures")
}

// userDir looks key up in user-dirs.dirs, a shell fragment of KEY="$HOME/..." lines.
// godotenv only expands variables defined in the parsed text, so HOME is seeded first.
func userDir(home, key string) string {
	dirs := configHome()
	if dirs == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(dirs, "user-dirs.dirs"))
	if err != nil {
		return ""
	}
	seed := []byte(fmt.Sprintf("HOME=%q\n", home))
	env, err := godotenv.UnmarshalBytes(append(seed, data...))
	if err != nil {
		return ""
	}
	dir := strings.TrimSpace(env[key])
	if dir == "" {
		return ""
	}
	return expandHome(os.ExpandEnv(dir))
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
