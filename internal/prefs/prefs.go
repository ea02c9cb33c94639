// Package prefs remembers what the reviewdeck TUI should look like and which
// app it should reopen.
//
// The file lives next to config.toml, in $XDG_CONFIG_HOME/reviewdeck or
// ~/.config/reviewdeck, and is rewritten whenever the theme or the selection
// changes. It is never required: a missing or damaged file means defaults.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	fileName     = "prefs.toml"
	appDir       = "reviewdeck"
	defaultTheme = "Nightfox"
)

// Prefs is the persisted UI state.
type Prefs struct {
	Theme   string `toml:"theme"`
	LastApp string `toml:"last_app,omitempty"` // reopened in the background on start
}

func defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

func (p *Prefs) normalize() {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.LastApp = strings.TrimSpace(p.LastApp)
}

// DefaultPath is prefs.toml under $XDG_CONFIG_HOME/reviewdeck, or under
// ~/.config/reviewdeck when XDG_CONFIG_HOME is unset. It returns "" when
// neither can be determined.
func DefaultPath() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); filepath.IsAbs(dir) {
		return filepath.Join(dir, appDir, fileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir, fileName)
}

// Load reads the prefs at path; an empty path means DefaultPath. A missing
// file yields defaults and no error. A file that cannot be read or parsed
// also yields defaults, together with the error so the caller can report it.
func Load(path string) (Prefs, error) {
	p := defaults()
	resolved, err := resolve(path)
	if err != nil {
		return p, err
	}
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return p, nil
	case err != nil:
		return p, fmt.Errorf("read prefs: %w", err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return defaults(), fmt.Errorf("parse %s: %w", resolved, err)
	}
	p.normalize()
	return p, nil
}

// Update applies fn to the stored prefs and writes them back. Unreadable prefs
// are replaced rather than blocking the change.
func Update(path string, fn func(*Prefs)) error {
	p, _ := Load(path)
	fn(&p)
	return Save(path, p)
}

// Save replaces the prefs file at path, creating its directory. The file is
// written to a temporary sibling first so a crash never leaves half a file.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	p.normalize()
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// resolve turns path into an absolute file name, expanding a leading ~.
func resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return "", errors.New("no prefs path: home directory unknown")
		}
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
