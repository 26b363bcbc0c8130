package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// GlobalConfig is the user config in <configDir>/config.yaml. Zero values mean
// "use the default"; LoadConfig fills them in.
type GlobalConfig struct {
	// Board is the slot key the board persists under.
	Board string `yaml:"board,omitempty"`
	// DataDir holds stickies.sqlite.
	DataDir  string `yaml:"dataDir,omitempty"`
	LogFile  string `yaml:"logFile,omitempty"`
	LogLevel string `yaml:"logLevel,omitempty"`

	Note NoteConfig `yaml:"note,omitempty"`

	// Padding and HeaderReserve drive new-note placement. Pointers so 0 is expressible.
	Padding       *int `yaml:"padding,omitempty"`
	HeaderReserve *int `yaml:"headerReserve,omitempty"`
}

type NoteConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

const (
	DefaultNoteWidth     = 24
	DefaultNoteHeight    = 9
	DefaultPadding       = 1
	DefaultHeaderReserve = 2
	DefaultLogLevel      = "info"
)

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.stickies).
	if v := strings.TrimSpace(os.Getenv("STICKIES_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stickies"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads the config file and fills defaults. A missing file is not an
// error; a malformed one is.
func LoadConfig() (*GlobalConfig, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	cfg := &GlobalConfig{}
	b, err := os.ReadFile(filepath.Join(dir, configFileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyDefaults(dir); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *GlobalConfig) applyDefaults(configDir string) error {
	c.Board = strings.TrimSpace(c.Board)
	if c.Board == "" {
		c.Board = DefaultBoardKey
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = configDir
	}
	if strings.TrimSpace(c.LogFile) == "" {
		c.LogFile = filepath.Join(configDir, "stickies.log")
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Note.Width <= 0 {
		c.Note.Width = DefaultNoteWidth
	}
	if c.Note.Height <= 0 {
		c.Note.Height = DefaultNoteHeight
	}
	if c.Note.Width < 8 || c.Note.Height < 4 {
		return fmt.Errorf("config: note must be at least 8x4 cells; got %dx%d", c.Note.Width, c.Note.Height)
	}
	if c.Padding == nil {
		p := DefaultPadding
		c.Padding = &p
	}
	if c.HeaderReserve == nil {
		h := DefaultHeaderReserve
		c.HeaderReserve = &h
	}
	if *c.Padding < 0 || *c.HeaderReserve < 0 {
		return errors.New("config: padding and headerReserve must not be negative")
	}
	return nil
}

// SaveConfig writes cfg to the config path atomically.
func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	// A unique temp name keeps a concurrent TUI and CLI from clobbering each other.
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
