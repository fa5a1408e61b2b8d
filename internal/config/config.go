// Package config loads settings for the ticketreport CLI and server.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// TICKETREPORT_* environment variables. Command-line flags are applied on
// top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/metrics"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable, e.g. TICKETREPORT_REPORT_HEADER_ROW.
const EnvPrefix = "TICKETREPORT"

// Config is the complete application configuration.
type Config struct {
	Report ReportConfig `yaml:"report" envconfig:"REPORT" validate:"-"`
	Server ServerConfig `yaml:"server" envconfig:"SERVER"`
	Log    LogConfig    `yaml:"log" envconfig:"LOG"`
}

// ReportConfig holds the report generation defaults.
type ReportConfig struct {
	Sheet      string          `yaml:"sheet" envconfig:"SHEET"`
	HeaderRow  int             `yaml:"header_row" envconfig:"HEADER_ROW"`
	DateColumn string          `yaml:"date_column" envconfig:"DATE_COLUMN"`
	Threshold  float64         `yaml:"threshold" envconfig:"THRESHOLD"`
	Primary    string          `yaml:"primary" envconfig:"PRIMARY"`
	Secondary  string          `yaml:"secondary" envconfig:"SECONDARY"`
	Tertiary   string          `yaml:"tertiary" envconfig:"TERTIARY"`
	Logo       string          `yaml:"logo" envconfig:"LOGO"`
	Title      string          `yaml:"title" envconfig:"TITLE"`
	Client     string          `yaml:"client" envconfig:"CLIENT"`
	Columns    metrics.Columns `yaml:"columns" envconfig:"COLUMNS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" validate:"required"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := ticketreport.DefaultOptions()
	return &Config{
		Report: ReportConfig{
			Sheet:      opts.Sheet,
			HeaderRow:  opts.HeaderRow,
			DateColumn: opts.DateColumn,
			Threshold:  opts.GroupThreshold,
			Primary:    opts.Branding.Primary,
			Secondary:  opts.Branding.Secondary,
			Tertiary:   opts.Branding.Tertiary,
			Title:      opts.Title,
			Client:     opts.Client,
			Columns:    opts.Columns,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadBytes:  32 << 20,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current value; unknown keys are rejected.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

var validate = validator.New()

// Validate checks every section. Report settings go through the same rules
// as ticketreport.Options.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)",
				strings.TrimPrefix(fe.Namespace(), "Config."), fe.Value(), fe.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	return c.Report.options().Validate()
}

// Options converts the report settings to generation options, reading the
// logo file if one is configured.
func (r ReportConfig) Options() (ticketreport.Options, error) {
	opts := r.options()
	if r.Logo != "" {
		logo, err := os.ReadFile(r.Logo)
		if err != nil {
			return opts, fmt.Errorf("failed to read logo: %w", err)
		}
		opts.Branding.Logo = logo
	}
	return opts, opts.Validate()
}

func (r ReportConfig) options() ticketreport.Options {
	opts := ticketreport.DefaultOptions()
	opts.Sheet = r.Sheet
	opts.HeaderRow = r.HeaderRow
	opts.DateColumn = r.DateColumn
	opts.GroupThreshold = r.Threshold
	opts.Branding = models.Branding{
		Primary:   r.Primary,
		Secondary: r.Secondary,
		Tertiary:  r.Tertiary,
	}
	opts.Title = r.Title
	opts.Client = r.Client
	opts.Columns = r.Columns
	return opts
}
