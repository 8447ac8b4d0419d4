package main

import (
	"context"
	"flag"
	"time"

	"github.com/guttosm/gbcepulse/config"
	"github.com/guttosm/gbcepulse/internal/domain/models"
	"github.com/guttosm/gbcepulse/internal/exchange"
	"github.com/guttosm/gbcepulse/internal/logger"
	"github.com/guttosm/gbcepulse/internal/service"
	"github.com/guttosm/gbcepulse/internal/simulation"
)

// referencePrice is the price (in pence) used when reporting dividend
// yields and P/E ratios in demo mode.
const referencePrice = 100.0

// seedMarket lists the GBCE sample stocks on the market.
func seedMarket(svc service.MarketService) error {
	stocks := []*models.Stock{
		models.NewCommonStock("TEA", 0, 100),
		models.NewCommonStock("POP", 8, 100),
		models.NewCommonStock("ALE", 23, 60),
		models.NewPreferredStock("GIN", 8, 0.02, 100),
		models.NewCommonStock("JOE", 13, 250),
	}
	for _, st := range stocks {
		if err := svc.RegisterStock(st); err != nil {
			return err
		}
	}
	return nil
}

// runDemo walks through the worked example: valuation figures for every
// listing, a handful of recorded trades, then the windowed queries.
func runDemo(ctx context.Context, svc service.MarketService, window time.Duration) error {
	for _, sym := range svc.Symbols() {
		st, _ := svc.Stock(sym)

		ev := logger.L().Info().
			Str("symbol", sym).
			Str("kind", st.Kind.String()).
			Float64("price", referencePrice)

		yield, err := svc.DividendYield(ctx, sym, referencePrice)
		if err != nil {
			return err
		}
		ev = ev.Float64("dividend_yield", yield)

		// A zero dividend (e.g. TEA) has no meaningful P/E.
		if pe, err := svc.PERatio(ctx, sym, referencePrice); err == nil {
			ev = ev.Float64("pe_ratio", pe)
		}
		ev.Msg("valuation")
	}

	trades := []struct {
		symbol   string
		quantity int64
		action   models.Action
		price    float64
	}{
		{"TEA", 1000, models.ActionBuy, 110},
		{"TEA", 2000, models.ActionBuy, 105},
		{"GIN", 200, models.ActionBuy, 80},
	}
	for _, tr := range trades {
		if _, err := svc.RecordTrade(ctx, tr.symbol, tr.quantity, tr.action, tr.price); err != nil {
			return err
		}
	}

	return report(ctx, svc, window)
}

// runSimulate seeds nothing extra; it records random trades and reports the
// windowed figures they produce.
func runSimulate(ctx context.Context, svc service.MarketService, window time.Duration, opts simulation.Options) error {
	summary, err := simulation.Run(ctx, svc, opts)
	if err != nil {
		return err
	}
	for sym, n := range summary.PerSymbol {
		logger.L().Debug().Str("symbol", sym).Int("trades", n).Msg("recorded")
	}
	return report(ctx, svc, window)
}

// report logs the windowed VWAP per symbol and the All Share Index.
func report(ctx context.Context, svc service.MarketService, window time.Duration) error {
	for _, sym := range svc.Symbols() {
		sp, err := svc.PriceBySymbol(ctx, sym, window)
		if err != nil {
			return err
		}
		if sp == nil {
			logger.L().Info().Str("symbol", sym).Dur("window", window).Msg("no trades in window")
			continue
		}
		logger.L().Info().Str("symbol", sym).Dur("window", window).Float64("vwap", sp.Price).Msg("stock price")
	}

	idx, err := svc.AllShareIndex(ctx, window)
	if err != nil {
		return err
	}
	if idx == nil {
		logger.L().Info().Dur("window", window).Msg("no trades in window, no index")
		return nil
	}
	logger.L().Info().
		Dur("window", window).
		Float64("index", idx.Value).
		Int("symbols", idx.Symbols).
		Msg("all share index")
	return nil
}

// main is the entry point of the gbcepulse runner.
//
// Modes (selected via --mode flag):
//   - demo:     valuation figures and windowed prices for the worked example.
//   - simulate: record random trades concurrently, then report.
//
// Flags override config defaults where provided.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "demo", "Mode: demo or simulate")
	window := flag.Int("window", config.AppConfig.Market.WindowSeconds, "Query window in seconds")
	trades := flag.Int("trades", config.AppConfig.Simulation.Trades, "Number of trades to simulate")
	parallel := flag.Int("parallel", config.AppConfig.Simulation.Parallel, "Simulation workers (0=auto)")
	seed := flag.Int64("seed", config.AppConfig.Simulation.Seed, "Simulation RNG seed (0=time-derived)")
	flag.Parse()

	ex := exchange.New(nil)
	svc := service.NewMarketService(ex, nil)
	if err := seedMarket(svc); err != nil {
		logger.L().Fatal().Err(err).Msg("seed market failed")
	}

	win := time.Duration(*window) * time.Second

	switch *mode {
	case "demo":
		if err := runDemo(ctx, svc, win); err != nil {
			logger.L().Fatal().Err(err).Msg("demo failed")
		}

	case "simulate":
		opts := simulation.Options{
			Trades:      *trades,
			Parallel:    *parallel,
			Seed:        *seed,
			MaxQuantity: config.AppConfig.Simulation.MaxQuantity,
		}
		if err := runSimulate(ctx, svc, win, opts); err != nil {
			logger.L().Fatal().Err(err).Msg("simulation failed")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
