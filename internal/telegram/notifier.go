// Package telegram pushes complaint lifecycle events to an administrators'
// chat so triage does not depend on someone watching the dashboard.
package telegram

import (
	"fmt"

	"aptcare/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
	sendCh chan models.ComplaintEvent
}

func NewNotifier(token string, chatID int64, log zerolog.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	n := &Notifier{
		bot:    bot,
		chatID: chatID,
		log:    log,
		sendCh: make(chan models.ComplaintEvent, 64),
	}
	go n.run()
	return n, nil
}

// NotifyEvent is called on the hub goroutine, so it queues and returns.
func (n *Notifier) NotifyEvent(ev models.ComplaintEvent) {
	select {
	case n.sendCh <- ev:
	default:
		n.log.Warn().Msg("telegram notify queue full, dropping event")
	}
}

func (n *Notifier) run() {
	for ev := range n.sendCh {
		msg := tgbotapi.NewMessage(n.chatID, format(ev))
		if _, err := n.bot.Send(msg); err != nil {
			n.log.Warn().Err(err).Str("type", ev.Type).Msg("telegram send failed")
		}
	}
}

func format(ev models.ComplaintEvent) string {
	switch ev.Type {
	case models.EventComplaintCreated:
		return fmt.Sprintf("🆕 New complaint: %s (%s)", ev.Title, ev.ComplaintID)
	case models.EventStatusChanged:
		return fmt.Sprintf("🔄 %s is now %s", ev.Title, ev.Status)
	case models.EventPaymentRecorded:
		return fmt.Sprintf("💰 Payment recorded for %s; complaint closed", ev.Title)
	case models.EventComplaintDeleted:
		return fmt.Sprintf("🗑 Complaint removed: %s", ev.Title)
	default:
		return fmt.Sprintf("Complaint event %s for %s", ev.Type, ev.ComplaintID)
	}
}
