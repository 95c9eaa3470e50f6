package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// PRICER_RISK_WORKERS=8 or PRICER_VALUATION_DATE=2025-01-02.
const EnvPrefix = "PRICER"

// Config represents a complete pricing run
type Config struct {
	ValuationDate string          `json:"valuation_date" yaml:"valuation_date" mapstructure:"valuation_date"` // empty means today
	Market        MarketConfig    `json:"market" yaml:"market" mapstructure:"market"`
	Portfolio     PortfolioConfig `json:"portfolio" yaml:"portfolio" mapstructure:"portfolio"`
	Pricer        PricerConfig    `json:"pricer" yaml:"pricer" mapstructure:"pricer"`
	Risk          RiskConfig      `json:"risk" yaml:"risk" mapstructure:"risk"`
	Output        OutputConfig    `json:"output" yaml:"output" mapstructure:"output"`
	Logging       LoggingConfig   `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// CurveFile names a curve and the file it is loaded from
type CurveFile struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	File string `json:"file" yaml:"file" mapstructure:"file"`
}

// MarketConfig lists the market data files
type MarketConfig struct {
	RateCurves []CurveFile `json:"rate_curves" yaml:"rate_curves" mapstructure:"rate_curves"`
	VolCurves  []CurveFile `json:"vol_curves" yaml:"vol_curves" mapstructure:"vol_curves"`
	SpotsFile  string      `json:"spots_file" yaml:"spots_file" mapstructure:"spots_file"`
}

// PortfolioConfig contains the trades file and curve selection. Underlying
// keys are case-insensitive.
type PortfolioConfig struct {
	TradesFile            string            `json:"trades_file" yaml:"trades_file" mapstructure:"trades_file"`
	DefaultRateCurve      string            `json:"default_rate_curve" yaml:"default_rate_curve" mapstructure:"default_rate_curve"`
	DefaultVolCurve       string            `json:"default_vol_curve" yaml:"default_vol_curve" mapstructure:"default_vol_curve"`
	RateCurveByUnderlying map[string]string `json:"rate_curve_by_underlying,omitempty" yaml:"rate_curve_by_underlying,omitempty" mapstructure:"rate_curve_by_underlying"`
	VolCurveByUnderlying  map[string]string `json:"vol_curve_by_underlying,omitempty" yaml:"vol_curve_by_underlying,omitempty" mapstructure:"vol_curve_by_underlying"`
}

// PricerConfig contains lattice parameters
type PricerConfig struct {
	Steps int `json:"steps" yaml:"steps" mapstructure:"steps"`
}

// RiskConfig contains bump sizes and worker settings
type RiskConfig struct {
	CurveShock float64  `json:"curve_shock" yaml:"curve_shock" mapstructure:"curve_shock"`
	VolShock   float64  `json:"vol_shock" yaml:"vol_shock" mapstructure:"vol_shock"`
	SpotShock  float64  `json:"spot_shock" yaml:"spot_shock" mapstructure:"spot_shock"`
	Workers    int      `json:"workers" yaml:"workers" mapstructure:"workers"`
	Concurrent bool     `json:"concurrent" yaml:"concurrent" mapstructure:"concurrent"`
	FailFast   bool     `json:"fail_fast" yaml:"fail_fast" mapstructure:"fail_fast"`
	Curves     []string `json:"curves,omitempty" yaml:"curves,omitempty" mapstructure:"curves"`
	Vols       []string `json:"vols,omitempty" yaml:"vols,omitempty" mapstructure:"vols"`
	Spots      []string `json:"spots,omitempty" yaml:"spots,omitempty" mapstructure:"spots"`
}

// OutputConfig contains report and journal parameters
type OutputConfig struct {
	ReportFile string `json:"report_file" yaml:"report_file" mapstructure:"report_file"`
	Delimiter  string `json:"delimiter" yaml:"delimiter" mapstructure:"delimiter"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"` // optional SQLite journal
}

// LoggingConfig contains logger parameters
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"` // "console" or "json"
}

// LoadFromFile loads configuration from a YAML or JSON file, applies
// PRICER_* environment overrides on top and validates the result.
func LoadFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parse config %s: %v: %w", path, err, errs.ErrConfiguration)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %v: %w", err, errs.ErrConfiguration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every scalar key so AutomaticEnv can override it
// even when the file leaves it out.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("valuation_date", d.ValuationDate)
	v.SetDefault("market.spots_file", d.Market.SpotsFile)
	v.SetDefault("portfolio.trades_file", d.Portfolio.TradesFile)
	v.SetDefault("portfolio.default_rate_curve", d.Portfolio.DefaultRateCurve)
	v.SetDefault("portfolio.default_vol_curve", d.Portfolio.DefaultVolCurve)
	v.SetDefault("pricer.steps", d.Pricer.Steps)
	v.SetDefault("risk.curve_shock", d.Risk.CurveShock)
	v.SetDefault("risk.vol_shock", d.Risk.VolShock)
	v.SetDefault("risk.spot_shock", d.Risk.SpotShock)
	v.SetDefault("risk.workers", d.Risk.Workers)
	v.SetDefault("risk.concurrent", d.Risk.Concurrent)
	v.SetDefault("risk.fail_fast", d.Risk.FailFast)
	v.SetDefault("output.report_file", d.Output.ReportFile)
	v.SetDefault("output.delimiter", d.Output.Delimiter)
	v.SetDefault("output.db_path", d.Output.DBPath)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Valuation returns the configured valuation date, or today when unset.
func (c *Config) Valuation() (date.Date, error) {
	if strings.TrimSpace(c.ValuationDate) == "" {
		return date.Today(), nil
	}
	return date.Parse(c.ValuationDate)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf(format+": %w", append(args, errs.ErrConfiguration)...)
	}

	if _, err := c.Valuation(); err != nil {
		return fmt.Errorf("valuation_date: %w", err)
	}

	if len(c.Market.RateCurves) == 0 {
		return invalid("market.rate_curves must list at least one curve")
	}
	for i, cf := range c.Market.RateCurves {
		if cf.Name == "" || cf.File == "" {
			return invalid("market.rate_curves[%d] needs name and file", i)
		}
	}
	for i, cf := range c.Market.VolCurves {
		if cf.Name == "" || cf.File == "" {
			return invalid("market.vol_curves[%d] needs name and file", i)
		}
	}
	if c.Market.SpotsFile == "" {
		return invalid("market.spots_file is required")
	}

	if c.Portfolio.TradesFile == "" {
		return invalid("portfolio.trades_file is required")
	}
	if c.Portfolio.DefaultRateCurve == "" {
		return invalid("portfolio.default_rate_curve is required")
	}

	if c.Pricer.Steps < 1 {
		return invalid("pricer.steps must be at least 1")
	}

	if c.Risk.CurveShock < 0 || c.Risk.VolShock < 0 || c.Risk.SpotShock < 0 {
		return invalid("risk shocks must not be negative")
	}
	if c.Risk.Workers < 1 {
		return invalid("risk.workers must be at least 1")
	}

	if c.Output.ReportFile == "" {
		return invalid("output.report_file is required")
	}
	if len([]rune(c.Output.Delimiter)) != 1 {
		return invalid("output.delimiter must be a single character")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return invalid("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return invalid("logging.format must be one of: console, json")
	}
	return nil
}

// Default returns a configuration pointing at ./data with the usual bumps
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			RateCurves: []CurveFile{
				{Name: "USD-SOFR", File: "./data/usd_sofr.csv"},
				{Name: "EUR-ESTR", File: "./data/eur_estr.csv"},
			},
			VolCurves:  []CurveFile{{Name: "LOGVOL", File: "./data/logvol.csv"}},
			SpotsFile:  "./data/spots.csv",
		},
		Portfolio: PortfolioConfig{
			TradesFile:       "./data/trades.csv",
			DefaultRateCurve: "USD-SOFR",
			DefaultVolCurve:  "LOGVOL",
			RateCurveByUnderlying: map[string]string{
				"EUR": "EUR-ESTR",
			},
		},
		Pricer: PricerConfig{
			Steps: 50,
		},
		Risk: RiskConfig{
			CurveShock: 0.0001,
			VolShock:   0.01,
			SpotShock:  1.0,
			Workers:    4,
			Concurrent: true,
		},
		Output: OutputConfig{
			ReportFile: "./results.csv",
			Delimiter:  ";",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
