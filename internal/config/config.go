package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is everything reel reads from config.toml.
type Config struct {
	BaseURL        string
	DramasPath     string
	RequestTimeout time.Duration
	Cache          CacheConfig
	Connectivity   ConnectivityConfig
	Log            LogConfig
}

// CacheConfig selects the offline cache backend.
type CacheConfig struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ConnectivityConfig drives the reachability prober.
type ConnectivityConfig struct {
	ProbeAddress  string
	ProbeInterval time.Duration
	WatchPaths    []string
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

const (
	defaultConfigPath     = "~/.config/reel/config.toml"
	defaultBaseURL        = "https://static.linetv.tw/"
	defaultDramasPath     = "interview/dramas-sample.json"
	defaultTimeoutSeconds = 10
	defaultCacheBackend   = "sqlite"
	defaultCachePath      = "~/.local/share/reel/offline.db"
	defaultProbeAddress   = "static.linetv.tw:443"
	defaultProbeSeconds   = 5
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultLogFile        = "~/.local/share/reel/logs/reel.log"
	defaultWatchPath      = "/etc/resolv.conf"
)

type rawConfig struct {
	BaseURL               string `toml:"base_url"`
	DramasPath            string `toml:"dramas_path"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	Cache                 struct {
		Backend       string `toml:"backend"`
		Path          string `toml:"path"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
	} `toml:"cache"`
	Connectivity struct {
		ProbeAddress         string   `toml:"probe_address"`
		ProbeIntervalSeconds int      `toml:"probe_interval_seconds"`
		WatchPaths           []string `toml:"watch_paths"`
	} `toml:"connectivity"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		File   string `toml:"file"`
	} `toml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		DramasPath:     defaultDramasPath,
		RequestTimeout: defaultTimeoutSeconds * time.Second,
		Cache: CacheConfig{
			Backend: defaultCacheBackend,
			Path:    mustExpand(defaultCachePath),
		},
		Connectivity: ConnectivityConfig{
			ProbeAddress:  defaultProbeAddress,
			ProbeInterval: defaultProbeSeconds * time.Second,
			WatchPaths:    []string{defaultWatchPath},
		},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   mustExpand(defaultLogFile),
		},
	}
}

// Load locates and parses the reel config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return raw.resolve()
}

func (raw rawConfig) resolve() (Config, error) {
	cfg := Default()

	cfg.BaseURL = orDefault(raw.BaseURL, defaultBaseURL)
	cfg.DramasPath = orDefault(raw.DramasPath, defaultDramasPath)
	if raw.RequestTimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("request_timeout_seconds must not be negative")
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}

	cfg.Cache.Backend = strings.ToLower(orDefault(raw.Cache.Backend, defaultCacheBackend))
	switch cfg.Cache.Backend {
	case "sqlite", "memory", "redis":
	default:
		return Config{}, fmt.Errorf("unknown cache backend %q", raw.Cache.Backend)
	}
	cfg.Cache.Path = mustExpand(orDefault(raw.Cache.Path, defaultCachePath))
	cfg.Cache.RedisAddr = strings.TrimSpace(raw.Cache.RedisAddr)
	cfg.Cache.RedisPassword = raw.Cache.RedisPassword
	cfg.Cache.RedisDB = raw.Cache.RedisDB
	if cfg.Cache.Backend == "redis" && cfg.Cache.RedisAddr == "" {
		return Config{}, fmt.Errorf("cache.redis_addr is required for the redis backend")
	}

	cfg.Connectivity.ProbeAddress = orDefault(raw.Connectivity.ProbeAddress, defaultProbeAddress)
	if raw.Connectivity.ProbeIntervalSeconds < 0 {
		return Config{}, fmt.Errorf("probe_interval_seconds must not be negative")
	}
	if raw.Connectivity.ProbeIntervalSeconds > 0 {
		cfg.Connectivity.ProbeInterval = time.Duration(raw.Connectivity.ProbeIntervalSeconds) * time.Second
	}
	if raw.Connectivity.WatchPaths != nil {
		cfg.Connectivity.WatchPaths = cfg.Connectivity.WatchPaths[:0]
		for _, p := range raw.Connectivity.WatchPaths {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Connectivity.WatchPaths = append(cfg.Connectivity.WatchPaths, mustExpand(p))
			}
		}
	}

	cfg.Log.Level = strings.ToLower(orDefault(raw.Log.Level, defaultLogLevel))
	cfg.Log.Format = strings.ToLower(orDefault(raw.Log.Format, defaultLogFormat))
	cfg.Log.File = mustExpand(orDefault(raw.Log.File, defaultLogFile))

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the home directory and makes path
// absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
