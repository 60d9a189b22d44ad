// Package config resolves the jsonstreams command configuration from flags,
// JSONSTREAMS_* environment variables and an optional YAML config file.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/arnodel/jsonstreams"
	"github.com/arnodel/jsonstreams/internal/records"
	"github.com/spf13/viper"
)

// Configuration keys.  Flags use the same names with "-" instead of "_".
const (
	KeyOutput    = "output"
	KeyIndent    = "indent"
	KeyInput     = "in"
	KeyCSVHeader = "csv_header"
	KeySelect    = "select"
	KeyKey       = "key"
	KeyGroup     = "group"
	KeyEncoder   = "encoder"
	KeyStats     = "stats"
	KeyLogLevel  = "log_level"
)

// EnvPrefix is the prefix of environment variables overriding configuration
// keys, e.g. JSONSTREAMS_INDENT.
const EnvPrefix = "JSONSTREAMS"

// DefaultTerminalIndent is the indent width used when writing to a terminal
// and no indent is configured.
const DefaultTerminalIndent = 2

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config is the resolved configuration of a jsonstreams run.
type Config struct {
	Output    string
	Indent    int
	Input     string
	CSVHeader []string
	Select    string
	Key       string
	Group     bool
	Encoder   string
	Stats     bool
	LogLevel  string
}

// NewViper returns a viper instance with the defaults and environment
// binding used by the command.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyInput, records.FormatAuto)
	v.SetDefault(KeyEncoder, "jsoniter")
	v.SetDefault(KeyLogLevel, "warn")
	return v
}

// ReadFile merges the YAML config file at path into v.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// Load resolves the configuration held by v.  stdoutIsTerminal decides the
// default indent width when none is set.
func Load(v *viper.Viper, stdoutIsTerminal bool) (*Config, error) {
	cfg := &Config{
		Output:    v.GetString(KeyOutput),
		Indent:    v.GetInt(KeyIndent),
		Input:     strings.ToLower(v.GetString(KeyInput)),
		CSVHeader: splitHeader(v.GetString(KeyCSVHeader)),
		Select:    v.GetString(KeySelect),
		Key:       v.GetString(KeyKey),
		Group:     v.GetBool(KeyGroup),
		Encoder:   strings.ToLower(v.GetString(KeyEncoder)),
		Stats:     v.GetBool(KeyStats),
		LogLevel:  strings.ToLower(v.GetString(KeyLogLevel)),
	}
	if !v.IsSet(KeyIndent) && stdoutIsTerminal && cfg.Output == "" {
		cfg.Indent = DefaultTerminalIndent
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting has an acceptable value.
func (c *Config) Validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("invalid indent %d: must not be negative", c.Indent)
	}
	if !records.ValidFormat(c.Input) {
		return fmt.Errorf("invalid input format %q; must be one of: %s", c.Input, strings.Join(records.Formats(), ", "))
	}
	if len(c.CSVHeader) > 0 && c.Input != records.FormatCSV && c.Input != records.FormatAuto {
		return fmt.Errorf("csv-header can only be used with CSV input without a header row")
	}
	if _, err := jsonstreams.EncoderByName(c.Encoder); err != nil {
		return err
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("invalid log level %q; must be one of: debug, info, warn, error", c.LogLevel)
	}
	if c.Group && c.Key == "" {
		return fmt.Errorf("group requires a key expression")
	}
	return nil
}

// SlogLevel returns the slog level for LogLevel.
func (c *Config) SlogLevel() slog.Level {
	return logLevels[c.LogLevel]
}

// RecordsOptions returns the options for reading input records.
func (c *Config) RecordsOptions() records.Options {
	format := c.Input
	if format == records.FormatAuto && len(c.CSVHeader) > 0 {
		format = records.FormatCSV
	}
	return records.Options{Format: format, FieldNames: c.CSVHeader}
}

// StreamOptions returns the options for the output stream.
func (c *Config) StreamOptions() ([]jsonstreams.Option, error) {
	enc, err := jsonstreams.EncoderByName(c.Encoder)
	if err != nil {
		return nil, err
	}
	return []jsonstreams.Option{
		jsonstreams.WithIndent(c.Indent),
		jsonstreams.WithEncoder(enc),
	}, nil
}

func splitHeader(s string) []string {
	if s == "" {
		return nil
	}
	names := strings.Split(s, ",")
	for i, name := range names {
		names[i] = strings.TrimSpace(name)
	}
	return names
}
