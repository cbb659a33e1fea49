package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/qiniu/x/log"
)

// Environment variables read by Load.
const (
	CacheDirEnv = "RECIPE_CACHE_DIR"
	LogLevelEnv = "RECIPE_LOG_LEVEL"
	CompilerEnv = "RECIPE_COMPILER"
)

// WorkDir returns the per-user recipe directory.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".recipe"), nil
}

// Config is the environment configuration of the recipe command.
type Config struct {
	// CacheDir is the package prefix cache searched by the prefix
	// resolver.
	CacheDir string
	LogLevel int
	// Compiler is the host compiler ("gcc-11") used when detecting
	// settings. Empty means it must be given explicitly.
	Compiler string
}

// Load reads .env from the working directory if there is one, then the
// RECIPE_* environment variables. Variables already set in the process
// environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: log.Linfo,
		Compiler: strings.TrimSpace(os.Getenv(CompilerEnv)),
	}
	if lvl := strings.TrimSpace(os.Getenv(LogLevelEnv)); lvl != "" {
		n, err := ParseLogLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", LogLevelEnv, err)
		}
		cfg.LogLevel = n
	}
	cfg.CacheDir = strings.TrimSpace(os.Getenv(CacheDirEnv))
	if cfg.CacheDir == "" {
		dir, err := WorkDir()
		if err != nil {
			return nil, err
		}
		cfg.CacheDir = filepath.Join(dir, "packages")
	}
	return cfg, nil
}

// ParseLogLevel maps debug, info, warn and error to log levels.
func ParseLogLevel(s string) (int, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.Ldebug, nil
	case "info":
		return log.Linfo, nil
	case "warn", "warning":
		return log.Lwarn, nil
	case "error":
		return log.Lerror, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
