package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/pricer/config"
	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/instrument"
	"github.com/rustyeddy/pricer/internal/logging"
	"github.com/rustyeddy/pricer/loader"
	"github.com/rustyeddy/pricer/market"
	"github.com/rustyeddy/pricer/portfolio"
)

var rootCmd = &cobra.Command{
	Use:   "pricer",
	Short: "Price a portfolio of bonds, swaps and options and compute bump-and-revalue risk",
	Long: `Pricer values bonds, interest rate swaps, European and American options and
call spreads against a market snapshot of rate curves, vol curves and spots.

It provides tools for:
  - Pricing a whole portfolio to a delimited report and a SQLite journal
  - DV01, vega and spot sensitivities by central/one-sided bumps
  - Inspecting single trades and interpolated curves
  - Generating and validating run configurations

Complete documentation is available at https://github.com/rustyeddy/pricer`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	logLevel string
	asOfFlag string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "pricer.yaml", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&asOfFlag, "date", "", "valuation date YYYY-MM-DD (overrides valuation_date)")
}

// session is everything a command needs once the config is loaded.
type session struct {
	cfg  *config.Config
	log  *zap.Logger
	asOf date.Date
}

func openSession() (*session, error) {
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if asOfFlag != "" {
		cfg.ValuationDate = asOfFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	asOf, err := cfg.Valuation()
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, asOf: asOf}, nil
}

func (s *session) close() { _ = s.log.Sync() }

func (s *session) market() (*market.Snapshot, error) {
	snap, err := loader.LoadMarket(s.cfg, s.asOf)
	if err != nil {
		return nil, err
	}
	s.log.Debug("market loaded",
		zap.String("as_of", s.asOf.String()),
		zap.Strings("curves", snap.CurveNames()),
		zap.Strings("vols", snap.VolNames()),
		zap.Strings("spots", snap.Tickers()),
	)
	return snap, nil
}

func (s *session) portfolio() (*portfolio.Portfolio, error) {
	trades, err := loader.LoadTrades(s.cfg.Portfolio.TradesFile, loader.TradeOptions{
		Selector: loader.NewCurveSelector(s.cfg.Portfolio),
		Steps:    s.cfg.Pricer.Steps,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("trades loaded", zap.Int("count", len(trades)))
	return portfolio.New(trades)
}

func (s *session) trade(id string) (instrument.Instrument, error) {
	p, err := s.portfolio()
	if err != nil {
		return nil, err
	}
	return p.Get(id)
}

func delimiter(cfg *config.Config) rune {
	for _, r := range cfg.Output.Delimiter {
		return r
	}
	return ';'
}
