// Package prefs keeps the TUI settings a user changes while reel runs: the
// color theme and whether the log pane is open. They live in a small TOML
// file beside config.toml and are rewritten whenever one is toggled.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/reel/internal/config"
)

// DefaultPath is used when no prefs path is given.
const DefaultPath = "~/.config/reel/prefs.toml"

// Prefs are the persisted TUI settings.
type Prefs struct {
	Theme    string `toml:"theme"`
	ShowLogs bool   `toml:"show_logs"`
}

// Default returns the settings in effect before anything was saved.
func Default() Prefs {
	return Prefs{Theme: "Dracula"}
}

// Load reads the prefs file at path. A missing file yields the defaults and
// no error. Any other failure also yields the defaults, together with an
// error the caller can report.
func Load(path string) (Prefs, error) {
	p := Default()

	resolved, err := resolve(path)
	if err != nil {
		return p, err
	}
	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read prefs: %w", err)
	}

	var stored Prefs
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&stored); err != nil {
		return p, fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		p.Theme = theme
	}
	p.ShowLogs = stored.ShowLogs
	return p, nil
}

// Save replaces the prefs file at path. The new content is written to a
// temporary file in the same directory first, so a crash never leaves a
// truncated file behind.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve prefs path: %w", err)
	}
	return resolved, nil
}
