package domain

import "context"

// Recipient — получатель уведомления: чат и, опционально, топик (тред) в нём.
type Recipient struct {
	ChatID   int64
	ThreadID int
}

// Zero сообщает, что получатель не задан.
func (r Recipient) Zero() bool { return r.ChatID == 0 }

// Абстракция отправки сообщений (реализуется Telegram-адаптером)
type MessageSender interface {
	// SendHTML отправляет уведомление с HTML-разметкой.
	SendHTML(ctx context.Context, to Recipient, html string) error
	// SendText отправляет простой текст (ответ отправителю заявки).
	SendText(ctx context.Context, chatID int64, text string) error
}
