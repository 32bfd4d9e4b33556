package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed layout.yaml
var defaultLayout []byte

// Config is the top-level converter configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Parser ParserConfig `yaml:"parser"`
	Layout Layout       `yaml:"layout"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Address     string `yaml:"address"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
	MaxFiles    int    `yaml:"max_files"`
}

// ParserConfig controls batch parsing.
type ParserConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"` // per document, 0 = none
}

// Layout describes one statement layout family: where the columns sit
// and which words mean what.
type Layout struct {
	Bank                 string   `yaml:"bank"`
	Currency             string   `yaml:"currency"`
	Columns              Columns  `yaml:"columns"`
	Months               []string `yaml:"months"`
	PaymentTypes         []string `yaml:"payment_types"`
	NoisePatterns        []string `yaml:"noise_patterns"`
	BroughtForwardMarker string   `yaml:"brought_forward_marker"`
	CarriedForwardMarker string   `yaml:"carried_forward_marker"`
	Identifiers          []string `yaml:"identifiers"`
}

// Columns holds the horizontal band cutoffs of the transaction table.
type Columns struct {
	DateMax        float64 `yaml:"date_max"`
	PaymentTypeMin float64 `yaml:"payment_type_min"`
	PaymentTypeMax float64 `yaml:"payment_type_max"`
	DescriptionMin float64 `yaml:"description_min"`
	PaidOutMin     float64 `yaml:"paid_out_min"`
	PaidOutMax     float64 `yaml:"paid_out_max"`
	PaidInMin      float64 `yaml:"paid_in_min"`
	PaidInMax      float64 `yaml:"paid_in_max"`
	BalanceMin     float64 `yaml:"balance_min"`
}

// DefaultLayout returns the built-in HSBC layout.
func DefaultLayout() Layout {
	var l Layout
	if err := yaml.Unmarshal(defaultLayout, &l); err != nil {
		panic(fmt.Sprintf("embedded layout.yaml: %v", err))
	}
	return l
}

// Default returns a Config with the built-in layout and server defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:     ":8080",
			BodyLimitMB: 50,
			MaxFiles:    20,
		},
		Parser: ParserConfig{
			Workers: 4,
		},
		Layout: DefaultLayout(),
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the
// file keep their default values; lists present in the file replace the
// default lists.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("invalid config: server.body_limit_mb must be positive")
	}
	if c.Server.MaxFiles <= 0 {
		return fmt.Errorf("invalid config: server.max_files must be positive")
	}
	if c.Parser.Workers <= 0 {
		return fmt.Errorf("invalid config: parser.workers must be positive")
	}
	if c.Parser.Timeout < 0 {
		return fmt.Errorf("invalid config: parser.timeout must not be negative")
	}
	return c.Layout.Validate()
}

// Validate checks that the bands are ordered left to right and the
// vocabularies are populated.
func (l *Layout) Validate() error {
	if l.Bank == "" {
		return fmt.Errorf("invalid layout: bank is required")
	}
	c := l.Columns
	cutoffs := []struct {
		name  string
		value float64
	}{
		{"date_max", c.DateMax},
		{"payment_type_min", c.PaymentTypeMin},
		{"payment_type_max", c.PaymentTypeMax},
		{"description_min", c.DescriptionMin},
		{"paid_out_min", c.PaidOutMin},
		{"paid_out_max", c.PaidOutMax},
		{"paid_in_min", c.PaidInMin},
		{"paid_in_max", c.PaidInMax},
		{"balance_min", c.BalanceMin},
	}
	for i := 1; i < len(cutoffs); i++ {
		if cutoffs[i].value < cutoffs[i-1].value {
			return fmt.Errorf("invalid layout: columns.%s (%.1f) is left of columns.%s (%.1f)",
				cutoffs[i].name, cutoffs[i].value, cutoffs[i-1].name, cutoffs[i-1].value)
		}
	}
	if len(l.Months) != 12 {
		return fmt.Errorf("invalid layout: expected 12 months, got %d", len(l.Months))
	}
	if len(l.PaymentTypes) == 0 {
		return fmt.Errorf("invalid layout: payment_types is empty")
	}
	if l.BroughtForwardMarker == "" || l.CarriedForwardMarker == "" {
		return fmt.Errorf("invalid layout: balance forward markers are required")
	}
	return nil
}
