package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/KevinGhlee/portfolio/internal/effects"
)

const (
	DefaultPort       = "8080"
	DefaultSessionTTL = 30 * time.Minute
	DefaultMaxViews   = 10000
)

// Config is the server configuration, read from the environment. A .env file
// in the working directory is loaded first by the binary.
type Config struct {
	Port        string
	EffectsPath string
	SessionTTL  time.Duration
	MaxViews    int
	ResumeURL   string
	Release     bool
}

// FromEnv reads PORT, PORTFOLIO_EFFECTS, SESSION_TTL, MAX_VIEWS, RESUME_URL
// and GIN_MODE.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		EffectsPath: os.Getenv("PORTFOLIO_EFFECTS"),
		SessionTTL:  DefaultSessionTTL,
		MaxViews:    DefaultMaxViews,
		ResumeURL:   os.Getenv("RESUME_URL"),
		Release:     os.Getenv("GIN_MODE") == "release",
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SESSION_TTL %q: %w", raw, err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
		}
		cfg.SessionTTL = ttl
	}
	if raw := os.Getenv("MAX_VIEWS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAX_VIEWS %q: %w", raw, err)
		}
		if n <= 0 {
			return Config{}, fmt.Errorf("MAX_VIEWS must be positive, got %d", n)
		}
		cfg.MaxViews = n
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// EffectsFile is the YAML layout of a variants file.
type EffectsFile struct {
	Default  string            `yaml:"default"`
	Variants []effects.Variant `yaml:"variants"`
}

// LoadEffects reads a variants file. An empty path selects the built-in
// presets.
func LoadEffects(path string) (*effects.Catalog, error) {
	if path == "" {
		return effects.DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read effects file: %w", err)
	}
	return ParseEffects(data)
}

// ParseEffects decodes a variants document.
func ParseEffects(data []byte) (*effects.Catalog, error) {
	var f EffectsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse effects file: %w", err)
	}
	if len(f.Variants) == 0 {
		return nil, errors.New("effects file declares no variants")
	}
	return effects.NewCatalog(f.Default, f.Variants...)
}

// WatchEffects reloads the variants file whenever it changes and hands every
// valid catalog to onChange. Invalid edits are reported to onError and the
// previous catalog stays in force. It returns when ctx is done.
func WatchEffects(ctx context.Context, path string, onChange func(*effects.Catalog), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			catalog, err := LoadEffects(target)
			if err != nil {
				onError(err)
				continue
			}
			onChange(catalog)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(err)
		}
	}
}
