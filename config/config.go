package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of one analysis run.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Window   WindowConfig   `yaml:"window"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Strategy StrategyConfig `yaml:"strategy"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// DataConfig points at the league exports.
type DataConfig struct {
	CurrencyCSV  string   `yaml:"currency_csv"`
	ItemsCSV     string   `yaml:"items_csv"`
	League       string   `yaml:"league"`        // derived from the currency file name when empty
	PayCurrency  string   `yaml:"pay_currency"`  // quote currency of the currency export
	ExcludeTypes []string `yaml:"exclude_types"` // item types left out of the analysis
	SkipInvalid  bool     `yaml:"skip_invalid"`  // skip malformed rows instead of aborting
}

// WindowConfig is the inclusive analysis range, YYYY-MM-DD.
type WindowConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// AnalysisConfig tunes the aggregators and the trade finder.
type AnalysisConfig struct {
	MovingAverageDays int             `yaml:"moving_average_days"`
	MinGain           decimal.Decimal `yaml:"min_gain"`
	MinGainPct        decimal.Decimal `yaml:"min_gain_pct"`
	TopPerType        int             `yaml:"top_per_type"`
}

// StrategyConfig controls the simulator.
type StrategyConfig struct {
	StartingCapital decimal.Decimal `yaml:"starting_capital"`
	Modes           []string        `yaml:"modes"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"` // empty disables the SQLite export
	ConsoleTop int    `yaml:"console_top"` // rows per console table
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML file and the .env file if present. Environment
// variables override the YAML values they correspond to. An empty path
// yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// AnalysisWindow parses the configured window.
func (c *Config) AnalysisWindow() (domain.Window, error) {
	return domain.ParseWindow(c.Window.Start, c.Window.End)
}

// StrategyModes parses the configured modes, keeping their order.
func (c *Config) StrategyModes() ([]domain.Mode, error) {
	modes := make([]domain.Mode, 0, len(c.Strategy.Modes))
	for _, s := range c.Strategy.Modes {
		m, err := domain.ParseMode(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Data.CurrencyCSV == "" {
		errs = append(errs, errors.New("data.currency_csv is required"))
	}
	if c.Data.ItemsCSV == "" {
		errs = append(errs, errors.New("data.items_csv is required"))
	}
	if _, err := c.AnalysisWindow(); err != nil {
		errs = append(errs, fmt.Errorf("window: %w", err))
	}
	if c.Analysis.MovingAverageDays <= 0 {
		errs = append(errs, fmt.Errorf("analysis.moving_average_days must be positive, got %d", c.Analysis.MovingAverageDays))
	}
	if c.Analysis.MinGain.IsNegative() || c.Analysis.MinGainPct.IsNegative() {
		errs = append(errs, errors.New("analysis.min_gain and min_gain_pct must be non-negative"))
	}
	if !c.Strategy.StartingCapital.IsPositive() {
		errs = append(errs, fmt.Errorf("strategy.starting_capital must be positive, got %s", c.Strategy.StartingCapital))
	}
	if _, err := c.StrategyModes(); err != nil {
		errs = append(errs, fmt.Errorf("strategy.modes: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}
	return nil
}

// applyEnvOverrides replaces values with environment variables when set.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MARKET_CURRENCY_CSV"); v != "" {
		cfg.Data.CurrencyCSV = v
	}
	if v := os.Getenv("MARKET_ITEMS_CSV"); v != "" {
		cfg.Data.ItemsCSV = v
	}
	if v := os.Getenv("MARKET_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("MARKET_WINDOW_START"); v != "" {
		cfg.Window.Start = v
	}
	if v := os.Getenv("MARKET_WINDOW_END"); v != "" {
		cfg.Window.End = v
	}
	if v := os.Getenv("MARKET_STARTING_CAPITAL"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("MARKET_STARTING_CAPITAL: %w", err)
		}
		cfg.Strategy.StartingCapital = d
	}
	return nil
}

// setDefaults fills every unset value.
func setDefaults(cfg *Config) {
	if cfg.Data.CurrencyCSV == "" {
		cfg.Data.CurrencyCSV = "data/Phrecia.currency.csv"
	}
	if cfg.Data.ItemsCSV == "" {
		cfg.Data.ItemsCSV = "data/Phrecia.items.csv"
	}
	if cfg.Data.League == "" {
		cfg.Data.League = leagueFromPath(cfg.Data.CurrencyCSV)
	}
	if cfg.Data.PayCurrency == "" {
		cfg.Data.PayCurrency = "Chaos Orb"
	}
	if cfg.Window.Start == "" {
		cfg.Window.Start = "2025-02-20"
	}
	if cfg.Window.End == "" {
		cfg.Window.End = "2025-02-26"
	}
	if cfg.Analysis.MovingAverageDays == 0 {
		cfg.Analysis.MovingAverageDays = 3
	}
	if cfg.Analysis.TopPerType <= 0 {
		cfg.Analysis.TopPerType = 3
	}
	if cfg.Strategy.StartingCapital.IsZero() {
		cfg.Strategy.StartingCapital = decimal.NewFromInt(100)
	}
	if len(cfg.Strategy.Modes) == 0 {
		cfg.Strategy.Modes = []string{
			string(domain.ModeAllIn),
			string(domain.ModeEqualSplit),
			string(domain.ModeGreedyOneUnit),
		}
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "analysis"
	}
	if cfg.Output.ConsoleTop <= 0 {
		cfg.Output.ConsoleTop = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// leagueFromPath takes "Phrecia" out of ".../Phrecia.currency.csv".
func leagueFromPath(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i > 0 {
		return name[:i]
	}
	return "league"
}
