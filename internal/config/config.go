package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultMaxFileSize     = 20 * 1024 * 1024 // 20MB, rosters are a few pages
	DefaultSessionCapacity = 64

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix is prepended to every environment variable, e.g. TURNI_DIR
	EnvPrefix = "TURNI"
)

// ErrVersionRequested is returned when the command line asks for the version
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the roster MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Roster configuration
	RosterDirectory string // rosters are only read from inside this directory
	OutputDirectory string // rendered schedules are written here
	LayoutFile      string // optional row layout replacing the built-in one

	// Application configuration
	Version         string
	ServerName      string
	LogLevel        string
	LogFormat       string
	MaxFileSize     int64 // Maximum roster file size in bytes
	SessionCapacity int   // Schedules kept in memory, one per client session
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio,
		Host:            DefaultHost,
		Port:            DefaultPort,
		RosterDirectory: currentDir,
		Version:         "1.0.0",
		ServerName:      "turni-pdf",
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		MaxFileSize:     DefaultMaxFileSize,
		SessionCapacity: DefaultSessionCapacity,
	}
}

// LoadFromFlags parses the process command line and environment
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[0], os.Args[1:])
}

// Load builds a configuration from args, TURNI_* environment variables and
// defaults, in that order of precedence.
func Load(program string, args []string) (*Config, error) {
	if versionRequested(args) {
		return nil, ErrVersionRequested
	}

	cfg := DefaultConfig()
	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := pflag.NewFlagSet(program, pflag.ContinueOnError)
	defineCommandLineFlags(flags, cfg)
	flags.Usage = func() { usage(os.Stderr, program, flags) }
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)

	if abs, err := filepath.Abs(cfg.RosterDirectory); err == nil {
		cfg.RosterDirectory = abs
	}
	if cfg.OutputDirectory == "" {
		cfg.OutputDirectory = cfg.RosterDirectory
	} else if abs, err := filepath.Abs(cfg.OutputDirectory); err == nil {
		cfg.OutputDirectory = abs
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.RosterDirectory)
	v.SetDefault("outdir", cfg.OutputDirectory)
	v.SetDefault("layout", cfg.LayoutFile)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("sessions", cfg.SessionCapacity)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE server")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("dir", cfg.RosterDirectory, "Directory containing roster PDF files")
	flags.String("outdir", cfg.OutputDirectory, "Directory for generated schedules (defaults to --dir)")
	flags.String("layout", cfg.LayoutFile, "Optional YAML/JSON/TOML file with the roster row layout")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("logformat", cfg.LogFormat, "Log format (console, json)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum roster file size in bytes")
	flags.Int("sessions", cfg.SessionCapacity, "Maximum number of client schedules kept in memory")
}

func usage(w io.Writer, program string, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage of %s:\n", program)
	fmt.Fprintf(w, "\nturni-pdf - A Model Context Protocol server that extracts personal shifts from roster PDFs\n\n")
	fmt.Fprintf(w, "Options:\n")
	flags.SetOutput(w)
	flags.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s                                   # stdio mode, current directory (default)\n", program)
	fmt.Fprintf(w, "  %s --dir=/srv/turni --outdir=/tmp    # custom roster and output directories\n", program)
	fmt.Fprintf(w, "  %s --mode=server --port=8081         # SSE server\n", program)
	fmt.Fprintf(w, "\nEnvironment Variables:\n")
	fmt.Fprintf(w, "  TURNI_MODE, TURNI_HOST, TURNI_PORT, TURNI_DIR, TURNI_OUTDIR, TURNI_LAYOUT,\n")
	fmt.Fprintf(w, "  TURNI_LOGLEVEL, TURNI_LOGFORMAT, TURNI_MAXFILESIZE, TURNI_SESSIONS\n")
}

func versionRequested(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.RosterDirectory = v.GetString("dir")
	cfg.OutputDirectory = v.GetString("outdir")
	cfg.LayoutFile = v.GetString("layout")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFormat = v.GetString("logformat")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.SessionCapacity = v.GetInt("sessions")
}

// Validate checks if the configuration is valid. Missing roster and output
// directories are created.
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.RosterDirectory == "" {
		return errors.New("roster directory cannot be empty")
	}
	if err := ensureDirectory(c.RosterDirectory); err != nil {
		return fmt.Errorf("roster directory: %w", err)
	}
	if c.OutputDirectory != "" {
		if err := ensureDirectory(c.OutputDirectory); err != nil {
			return fmt.Errorf("output directory: %w", err)
		}
	}

	if c.LayoutFile != "" {
		if info, err := os.Stat(c.LayoutFile); err != nil {
			return fmt.Errorf("cannot access layout file %s: %w", c.LayoutFile, err)
		} else if info.IsDir() {
			return fmt.Errorf("layout file %s is a directory", c.LayoutFile)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.SessionCapacity < 1 {
		return errors.New("session capacity must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be one of: console, json)", c.LogFormat)
	}

	return nil
}

func ensureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, RosterDirectory: %s, OutputDirectory: %s, "+
		"LayoutFile: %s, LogLevel: %s, LogFormat: %s, MaxFileSize: %d, SessionCapacity: %d}",
		c.Mode, c.Host, c.Port, c.RosterDirectory, c.OutputDirectory,
		c.LayoutFile, c.LogLevel, c.LogFormat, c.MaxFileSize, c.SessionCapacity)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
