// Package config handles application configuration and command-line argument parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/meg/extract-files/pkg/filesystem"
	"github.com/meg/extract-files/pkg/fingerprint"
)

// Config holds the application configuration
type Config struct {
	TargetDir     string                `arg:"positional,required" help:"Target directory files are extracted into (created if missing)"`
	Source        string                `arg:"-s,--source" default:"." help:"Source directory to scan"`
	Extension     string                `arg:"-e,--extension,required" help:"Extension of files to extract (e.g. .txt; leading dot optional)"`
	Move          bool                  `arg:"-m,--move" help:"Move files instead of copying"`
	PrefixLength  int                   `arg:"-p,--prefix-length" default:"0" help:"Initial hash prefix length; 0 disables hashing, sign is ignored, grows on collisions"`
	Algorithm     fingerprint.Algorithm `arg:"-a,--algorithm" default:"sha512" help:"Hash algorithm for filename prefixes: crc32|md2|md4|md5|sha256|sha384|sha512"`
	CaseSensitive bool                  `arg:"-c,--case-sensitive" help:"Match the extension case-sensitively"`
	Pattern       string                `arg:"--pattern" help:"Optional glob pattern applied to relative paths (doublestar syntax)"`
	Journal       string                `arg:"--journal" help:"Record placements in a SQLite journal at this path"`
	Plain         bool                  `arg:"--plain" help:"Plain line-oriented output instead of the terminal UI"`
	LogLevel      string                `arg:"--log-level" default:"info" help:"Log level: debug|info|warn|error"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Extract files matching an extension from a directory tree into a flat target directory"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "extract-files 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{
		Source:    ".",
		Algorithm: fingerprint.SHA512,
		LogLevel:  "info",
	}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.Extension == "" {
		return nil, fmt.Errorf("extension must not be empty")
	}

	// Normalize the extension to start with a dot
	if !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}

	// The sign of the prefix length carries no meaning
	if cfg.PrefixLength < 0 {
		cfg.PrefixLength = -cfg.PrefixLength
	}

	if err := ValidateFilePattern(cfg.Pattern); err != nil {
		return nil, err
	}

	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateFilePattern checks that a glob pattern is well-formed before the
// scan starts. An empty pattern is valid and matches everything.
func ValidateFilePattern(pattern string) error {
	if pattern == "" {
		return nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid file pattern: %s", pattern)
	}

	return nil
}

// ValidatePaths validates that the source and target paths are usable before
// any file is processed. The source must be an existing directory (or a
// well-formed SFTP URL); the target only needs a well-formed path since it
// is created on demand.
func (cfg *Config) ValidatePaths() error {
	if cfg.Source == "" {
		return fmt.Errorf("source path is required")
	}

	if cfg.TargetDir == "" {
		return fmt.Errorf("target directory is required")
	}

	parsedSource, err := filesystem.ParsePath(cfg.Source)
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}

	if _, err := filesystem.ParsePath(cfg.TargetDir); err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	// Remote sources are checked at connect time, not here
	if parsedSource.IsRemote {
		return nil
	}

	sourceInfo, err := os.Stat(parsedSource.LocalPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("source path does not exist: %s", cfg.Source)
	}

	if err != nil {
		return fmt.Errorf("cannot access source path: %w", err)
	}

	if !sourceInfo.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", cfg.Source)
	}

	return nil
}
