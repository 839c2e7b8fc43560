package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/web3guy0/stakebot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TELEGRAM NOTIFIER - Wager alerts & session summaries
// ═══════════════════════════════════════════════════════════════════════════════
//
// Optional sink: the engine fans wagers out to it off the critical path, so
// Telegram latency or failures never touch a bet decision.
//
// ═══════════════════════════════════════════════════════════════════════════════

type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier connects the Telegram bot API.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	log.Info().Str("bot", api.Self.UserName).Msg("🤖 Telegram notifier connected")
	return &Notifier{api: api, chatID: chatID}, nil
}

// Append pushes one wager notification. Implements the engine's history sink.
func (n *Notifier) Append(w types.Wager) error {
	var text string
	if w.Rejected {
		text = fmt.Sprintf("🚫 *%s* — no bet\n_%s_", w.Strategy, w.Rationale)
	} else {
		text = fmt.Sprintf(
			"🎲 *%s* — $%s (%.1f%% of bank)\nRisk: %s\n_%s_",
			w.Strategy, w.Amount.StringFixed(2), w.PctBank*100, w.Risk, w.Rationale,
		)
	}
	return n.send(text)
}

// NotifySummary pushes a session summary.
func (n *Notifier) NotifySummary(s types.Summary) error {
	text := fmt.Sprintf(
		"📊 *Session summary*\nBets: %d (%dW/%dL)\nBank: $%s → $%s (peak $%s)\nDrawdown: %.1f%%\nROI: %.1f%%\nTotal EV: $%s",
		s.Bets, s.Wins, s.Losses,
		s.InitialBank.StringFixed(2), s.FinalBank.StringFixed(2), s.PeakBank.StringFixed(2),
		s.DrawdownPct*100, s.ROI*100, s.TotalEV.StringFixed(2),
	)
	return n.send(text)
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
