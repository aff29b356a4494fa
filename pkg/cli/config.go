package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys read by LoadConfig.
const (
	EnvDebug         = "RIMP_DEBUG"
	EnvLogLevel      = "RIMP_LOG_LEVEL"
	EnvLogFile       = "RIMP_LOG_FILE"
	EnvLogMaxSizeMB  = "RIMP_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "RIMP_LOG_MAX_BACKUPS"
	EnvLogJSON       = "RIMP_LOG_JSON"
	EnvDefaultKey    = "RIMP_DEFAULT_KEY"
	EnvJPEGQuality   = "RIMP_JPEG_QUALITY"
	EnvUpdateRepo    = "RIMP_UPDATE_REPO"
	EnvPreview       = "RIMP_PREVIEW"
)

// DefaultUpdateRepo is the GitHub repository queried for releases.
const DefaultUpdateRepo = "Fepozopo/rimp"

// Config holds runtime settings resolved from .env files and the process
// environment.
type Config struct {
	Debug         bool
	LogLevel      slog.Level
	LogFile       string // empty logs to stderr
	LogMaxSizeMB  int
	LogMaxBackups int
	LogJSON       bool

	// DefaultKey pre-fills the encrypt command when HasDefaultKey is set.
	DefaultKey    int64
	HasDefaultKey bool

	JPEGQuality int
	UpdateRepo  string
	Preview     string // auto, off, kitty, inline or chafa
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		LogLevel:      slog.LevelInfo,
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		JPEGQuality:   92,
		UpdateRepo:    DefaultUpdateRepo,
		Preview:       PreviewAuto,
	}
}

// LoadConfig reads the given dotenv files (or ./.env when none are given)
// and then the process environment. Variables already set in the
// environment win over file values. A missing ./.env is not an error; a
// missing file named explicitly is.
func LoadConfig(paths ...string) (Config, error) {
	fileVals := map[string]string{}
	explicit := len(paths) > 0
	if !explicit {
		paths = []string{".env"}
	}
	for _, p := range paths {
		vals, err := godotenv.Read(p)
		if err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read env file %s: %w", p, err)
		}
		for k, v := range vals {
			fileVals[k] = v
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}
	return parseConfig(lookup)
}

func parseConfig(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()

	if v, ok := lookup(EnvDebug); ok {
		b, err := parseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		cfg.Debug = b
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	if cfg.Debug {
		cfg.LogLevel = slog.LevelDebug
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.LogFile = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogMaxSizeMB); ok {
		n, err := parsePositive(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvLogMaxSizeMB, err)
		}
		cfg.LogMaxSizeMB = n
	}
	if v, ok := lookup(EnvLogMaxBackups); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvLogMaxBackups, v)
		}
		cfg.LogMaxBackups = n
	}
	if v, ok := lookup(EnvLogJSON); ok {
		b, err := parseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvLogJSON, err)
		}
		cfg.LogJSON = b
	}
	if v, ok := lookup(EnvDefaultKey); ok && strings.TrimSpace(v) != "" {
		key, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvDefaultKey, err)
		}
		cfg.DefaultKey = key
		cfg.HasDefaultKey = true
	}
	if v, ok := lookup(EnvJPEGQuality); ok {
		q, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || q < 1 || q > 100 {
			return Config{}, fmt.Errorf("invalid %s: %q (want 1-100)", EnvJPEGQuality, v)
		}
		cfg.JPEGQuality = q
	}
	if v, ok := lookup(EnvUpdateRepo); ok && strings.TrimSpace(v) != "" {
		cfg.UpdateRepo = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPreview); ok && strings.TrimSpace(v) != "" {
		switch b := strings.ToLower(strings.TrimSpace(v)); b {
		case PreviewAuto, PreviewOff, PreviewKitty, PreviewInline, PreviewChafa:
			cfg.Preview = b
		default:
			return Config{}, fmt.Errorf("invalid %s: %q", EnvPreview, v)
		}
	}
	return cfg, nil
}

// ParseLevel accepts DEBUG, INFO, WARN or ERROR in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// parseBool accepts common truthy/falsy forms.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "", "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %q", s)
	}
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}
