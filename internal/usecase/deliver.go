package usecase

import (
	"context"
	"log/slog"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// DeliveryResult — исход отправки одному получателю.
type DeliveryResult struct {
	Recipient domain.Recipient
	Err       error
}

// DeliveryOutcome живёт только в рамках одной доставки и никуда не сохраняется.
type DeliveryOutcome struct {
	Results   []DeliveryResult
	Delivered int
	Attempted int
}

// Notifier рассылает уведомление по списку админ-чатов.
// Список фиксируется на старте процесса и дальше не меняется.
type Notifier struct {
	sender     domain.MessageSender
	recipients []domain.Recipient
	log        *slog.Logger
}

func NewNotifier(sender domain.MessageSender, recipients []domain.Recipient, log *slog.Logger) *Notifier {
	return &Notifier{sender: sender, recipients: recipients, log: log}
}

// Deliver отправляет html каждому получателю по очереди. Ошибка по одному
// получателю логируется и не прерывает обход остальных. Повторных попыток нет:
// недоставленное уведомление теряется, это осознанное упрощение.
// При пустом списке получателей — отправка в чат, откуда пришла заявка.
func (n *Notifier) Deliver(ctx context.Context, html string, origin domain.Recipient) DeliveryOutcome {
	targets := n.recipients
	if len(targets) == 0 {
		if origin.Zero() {
			n.log.Warn("no recipients configured and no origin chat, nothing to deliver")
			return DeliveryOutcome{}
		}
		n.log.Warn("no recipients configured, falling back to origin chat", "chat_id", origin.ChatID)
		targets = []domain.Recipient{origin}
	}

	out := DeliveryOutcome{
		Results:   make([]DeliveryResult, 0, len(targets)),
		Attempted: len(targets),
	}
	for _, r := range targets {
		err := n.sender.SendHTML(ctx, r, html)
		out.Results = append(out.Results, DeliveryResult{Recipient: r, Err: err})
		if err != nil {
			n.log.Error("admin notification failed", "chat_id", r.ChatID, "thread_id", r.ThreadID, "error", err)
			continue
		}
		out.Delivered++
	}
	return out
}
