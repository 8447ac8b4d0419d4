package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// It is composed of smaller structs that represent different concerns:
// market query defaults and simulation settings.
//
// Example ENV equivalent:
//
//	MARKET_WINDOW_SECONDS=300
//	SIM_TRADES=1000
//	SIM_PARALLEL=0
//	SIM_SEED=0
//	SIM_MAX_QUANTITY=1000
type Config struct {
	Market     MarketConfig     // windowed query defaults
	Simulation SimulationConfig // random trade generator settings
}

// MarketConfig holds defaults for the windowed price queries.
type MarketConfig struct {
	WindowSeconds int // trailing window for VWAP and index queries, in seconds
}

// SimulationConfig defines how the random trade generator behaves.
//
// Fields:
//   - Trades: total number of trades to record.
//   - Parallel: worker count (0 = auto, capped at CPU count).
//   - Seed: RNG seed (0 = derive from the current time).
//   - MaxQuantity: upper bound for a single trade's quantity.
type SimulationConfig struct {
	Trades      int
	Parallel    int
	Seed        int64
	MaxQuantity int64
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and read throughout the application
// instead of re-reading environment variables.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from a .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
func LoadConfig() {
	// Default values
	viper.SetDefault("MARKET_WINDOW_SECONDS", 300)

	viper.SetDefault("SIM_TRADES", 1000)
	viper.SetDefault("SIM_PARALLEL", 0)
	viper.SetDefault("SIM_SEED", 0)
	viper.SetDefault("SIM_MAX_QUANTITY", 1000)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	AppConfig = Config{
		Market: MarketConfig{
			WindowSeconds: viper.GetInt("MARKET_WINDOW_SECONDS"),
		},
		Simulation: SimulationConfig{
			Trades:      viper.GetInt("SIM_TRADES"),
			Parallel:    viper.GetInt("SIM_PARALLEL"),
			Seed:        viper.GetInt64("SIM_SEED"),
			MaxQuantity: viper.GetInt64("SIM_MAX_QUANTITY"),
		},
	}

	validateConfig()
}

// validateConfig ensures settings are usable and terminates the application
// if they are not. This avoids unexpected runtime failures from a window or
// trade count of zero.
func validateConfig() {
	var invalid []string

	if AppConfig.Market.WindowSeconds <= 0 {
		invalid = append(invalid, "MARKET_WINDOW_SECONDS")
	}
	if AppConfig.Simulation.Trades <= 0 {
		invalid = append(invalid, "SIM_TRADES")
	}
	if AppConfig.Simulation.Parallel < 0 {
		invalid = append(invalid, "SIM_PARALLEL")
	}
	if AppConfig.Simulation.MaxQuantity <= 0 {
		invalid = append(invalid, "SIM_MAX_QUANTITY")
	}

	if len(invalid) > 0 {
		log.Fatalf("invalid configuration values: %v\n", invalid)
	}
}
