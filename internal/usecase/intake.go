package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// Фиксированные ответы отправителю. Ответ строго бинарный: частичная доставка
// ("2 из 5") наружу не выносится — отправителю важно только "дошло или нет",
// детали остаются в логах оператора.
const (
	AckDelivered      = "✅ Заявка успешно передана администратору!"
	AckDeliveryFailed = "⚠️ Ошибка: не удалось доставить администратору."
	AckUnparseable    = "⚠️ Ошибка: не удалось разобрать данные формы."
)

// ComposeAck сводит счётчик доставки к тексту для отправителя.
func ComposeAck(delivered int) string {
	if delivered > 0 {
		return AckDelivered
	}
	return AckDeliveryFailed
}

// Intake — конвейер обработки одной заявки:
// нормализация -> классификация -> форматирование -> рассылка -> ответ.
// Состояния между заявками нет, конвейер синхронный.
type Intake struct {
	notifier *Notifier
	leads    domain.LeadRepository
	log      *slog.Logger
	now      func() time.Time
}

func NewIntake(notifier *Notifier, leads domain.LeadRepository, log *slog.Logger) *Intake {
	return &Intake{notifier: notifier, leads: leads, log: log, now: time.Now}
}

// Handle прогоняет сырую отправку через конвейер и возвращает текст ответа
// отправителю. Любой сбой превращается в фиксированный текст, наружу ошибки
// не выходят.
func (i *Intake) Handle(ctx context.Context, raw string, sender *domain.Sender, origin domain.Recipient) string {
	payload, err := Normalize(raw)
	if err != nil {
		if errors.Is(err, ErrUnparseable) {
			i.log.Warn("unparseable submission", "raw_len", len(raw))
			return AckUnparseable
		}
		i.log.Error("normalize failed", "error", err)
		return AckUnparseable
	}

	lead := Classify(payload, sender, i.now())
	i.log.Info("lead classified", "kind", lead.Kind)

	if i.leads != nil {
		if err := i.leads.SaveLead(lead); err != nil {
			// Архив — best effort, доставку не блокирует.
			i.log.Error("lead archive failed", "kind", lead.Kind, "error", err)
		}
	}

	html := FormatNotification(lead)
	outcome := i.notifier.Deliver(ctx, html, origin)
	i.log.Info("lead delivered",
		"kind", lead.Kind,
		"delivered", outcome.Delivered,
		"attempted", outcome.Attempted,
	)
	return ComposeAck(outcome.Delivered)
}
