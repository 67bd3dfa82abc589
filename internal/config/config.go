package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// maxDifficulty is bounded by the digest length: a SHA-256 hex digest has 64
// characters to carry leading zeros.
const maxDifficulty = 64

type Config struct {
	Mining MiningConfig
	Log    LogConfig

	// Quiet suppresses the rendered chain tables; logs still go to stderr.
	Quiet bool
}

type MiningConfig struct {
	// Difficulty is the required count of leading zero hex characters in
	// every admitted block's digest. Fixed for the lifetime of a chain.
	Difficulty int
}

type LogConfig struct {
	Level  string // debug|info|warn|error
	Format string // json|text
}

func Default() Config {
	return Config{
		Mining: MiningConfig{
			Difficulty: 2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

type Parsed struct {
	Config Config

	// Contents are the positional arguments left after flag parsing: one
	// block payload each, admitted in order.
	Contents []string
}

// ParseMineFlags parses the flag set shared by the mining subcommands.
// Every flag falls back to a LODESTONE_* environment variable, then to the
// default.
func ParseMineFlags(name string, args []string) (Parsed, error) {
	cfg := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var (
		difficulty = fs.Int("difficulty", envOrInt("LODESTONE_DIFFICULTY", cfg.Mining.Difficulty), "Leading zero hex characters required of every block digest")
		logLevel   = fs.String("log.level", envOr("LODESTONE_LOG_LEVEL", cfg.Log.Level), "Log level: debug|info|warn|error")
		logFormat  = fs.String("log.format", envOr("LODESTONE_LOG_FORMAT", cfg.Log.Format), "Log format: json|text")
		quiet      = fs.Bool("quiet", envOrBool("LODESTONE_QUIET", false), "Suppress chain table output")
	)

	if err := fs.Parse(args); err != nil {
		return Parsed{}, err
	}

	cfg.Mining.Difficulty = *difficulty
	cfg.Log.Level = strings.TrimSpace(*logLevel)
	cfg.Log.Format = strings.TrimSpace(*logFormat)
	cfg.Quiet = *quiet

	if err := validate(cfg); err != nil {
		return Parsed{}, err
	}

	return Parsed{Config: cfg, Contents: fs.Args()}, nil
}

func validate(cfg Config) error {
	if cfg.Mining.Difficulty < 1 || cfg.Mining.Difficulty > maxDifficulty {
		return fmt.Errorf("difficulty out of range [1,%d]: %d", maxDifficulty, cfg.Mining.Difficulty)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", cfg.Log.Level)
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log.format: %q", cfg.Log.Format)
	}

	return nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envOrInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
