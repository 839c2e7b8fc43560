// Stakebot - bankroll engine and staking strategy simulator
//
// Loads a bankroll from the environment, wires the history sinks (JSONL
// journal, optional SQL store, optional Telegram notifier) and runs a
// simulated betting session across the strategy catalog, settling each
// wager against its implied probability.
package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/web3guy0/stakebot/bot"
	"github.com/web3guy0/stakebot/core"
	"github.com/web3guy0/stakebot/internal/config"
	"github.com/web3guy0/stakebot/odds"
	"github.com/web3guy0/stakebot/ratings"
	"github.com/web3guy0/stakebot/risk"
	"github.com/web3guy0/stakebot/storage"
	"github.com/web3guy0/stakebot/strategy"
)

const version = "1.0.0"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	profile, err := risk.ProfileByName(cfg.Profile)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad risk profile")
	}

	// History sinks
	var sinks []core.Sink

	journal, err := storage.OpenJournal(cfg.JournalPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open journal")
	}
	defer journal.Close()
	sinks = append(sinks, journal)

	if cfg.StoreDSN != "" {
		store, err := storage.Open(cfg.StoreDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open wager store")
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	var notifier *bot.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err = bot.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram disabled")
		} else {
			sinks = append(sinks, notifier)
		}
	}

	engine, err := core.New(core.Config{
		InitialBankroll: cfg.InitialBankroll,
		Profile:         profile,
		MaxRiskPct:      cfg.MaxRiskPct,
		MinBankroll:     cfg.MinBankroll,
	}, sinks...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build engine")
	}

	log.Info().Str("version", version).Msg("🎲 Stakebot starting simulated session")
	runSession(engine, eloDifferential(cfg.RatingsURL))

	engine.Close()

	summary := engine.Summary()
	log.Info().
		Int("bets", summary.Bets).
		Str("final", summary.FinalBank.StringFixed(2)).
		Str("peak", summary.PeakBank.StringFixed(2)).
		Float64("roi", summary.ROI).
		Float64("drawdown", summary.DrawdownPct).
		Str("total_ev", summary.TotalEV.StringFixed(2)).
		Msg("📊 Session complete")

	if notifier != nil {
		if err := notifier.NotifySummary(summary); err != nil {
			log.Warn().Err(err).Msg("Summary notification failed")
		}
	}
}

// eloDifferential resolves the ELO-Kelly input: from the ratings service
// when one is configured, otherwise a fixed home-edge differential.
func eloDifferential(ratingsURL string) float64 {
	if ratingsURL == "" {
		return 80
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	diff, err := ratings.NewClient(ratingsURL).Differential(ctx, "home", "away")
	if err != nil {
		log.Warn().Err(err).Msg("Ratings service unavailable, using default differential")
		return 80
	}
	log.Info().Float64("elo_diff", diff).Msg("Ratings differential fetched")
	return diff
}

// runSession places one wager per strategy and settles it by sampling the
// quoted probability.
func runSession(engine *core.Engine, eloDiff float64) {
	rng := rand.New(rand.NewSource(42))
	quoted := odds.NewAmerican(150) // decimal 2.50, implied 40%
	p := 0.45

	rounds := []struct {
		id     string
		params strategy.Params
	}{
		{"ev_kelly", strategy.Params{P: p, Odds: &quoted, Agg: 1.5}},
		{"pure_kelly", strategy.Params{P: p, Odds: &quoted}},
		{"elo_kelly", strategy.Params{EloDiff: &eloDiff, Odds: &quoted, Agg: 1}},
		{"fibonacci", strategy.Params{Odds: &quoted, Unit: 0.01}},
		{"martingale", strategy.Params{BaseBet: decimal.NewFromInt(10)}},
		{"dalembert", strategy.Params{BaseBet: decimal.NewFromInt(10)}},
		{"labouchere", strategy.Params{Target: decimal.NewFromInt(100)}},
		{"flat", strategy.Params{FixedAmount: decimal.NewFromInt(25)}},
		{"percentage", strategy.Params{BetPct: 0.03}},
		{"vig", strategy.Params{FavOdds: ptr(odds.NewAmerican(-150)), DogOdds: ptr(odds.NewAmerican(130))}},
		{"parlay", strategy.Params{Legs: []odds.Odds{odds.NewDecimal(1.8), odds.NewDecimal(2.1)}}},
	}

	for _, r := range rounds {
		w, err := engine.Bet(r.id, r.params)
		if err != nil {
			log.Error().Err(err).Str("strategy", r.id).Msg("Bet failed")
			continue
		}
		if !w.Placed() {
			continue
		}

		// Settle: the stake is already escrowed, a win returns it at the
		// quoted price.
		won := rng.Float64() < p
		balance := engine.Balance()
		if won {
			dec := 2.5
			balance = balance.Add(odds.Payout(w.Amount, dec))
		}
		if err := engine.UpdateBank(balance, won); err != nil {
			log.Error().Err(err).Msg("Settlement failed")
		}
	}
}

func ptr(o odds.Odds) *odds.Odds { return &o }
