package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// ErrNoTarget — канал публикации не настроен и не привязан командой /bind.
var ErrNoTarget = errors.New("publish target is not configured")

// Post — публикация в канал: текст или фото с подписью, плюс кнопка-ссылка.
type Post struct {
	Text        string
	PhotoFileID string
	ButtonLabel string
	ButtonURL   string
}

// ChannelPoster — отправка поста в канал (реализуется Telegram-адаптером).
type ChannelPoster interface {
	SendPost(ctx context.Context, to domain.Recipient, post Post) error
}

// Target — изменяемая ячейка с текущим каналом публикации. Ею владеет
// командный слой бота: /bind перенацеливает публикации на лету, остальной
// конвейер ячейку не видит.
type Target struct {
	mu sync.Mutex
	r  domain.Recipient
}

func NewTarget(r domain.Recipient) *Target { return &Target{r: r} }

func (t *Target) Get() domain.Recipient {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.r
}

func (t *Target) Set(r domain.Recipient) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.r = r
}

type Publisher struct {
	poster ChannelPoster
	target *Target
	log    *slog.Logger
}

func NewPublisher(poster ChannelPoster, target *Target, log *slog.Logger) *Publisher {
	return &Publisher{poster: poster, target: target, log: log}
}

// Publish отправляет пост в привязанный канал. Если отправка в топик падает
// по причине, связанной с тредом, делает ровно одну повторную попытку без
// топика — единственный ретрай во всей системе.
func (p *Publisher) Publish(ctx context.Context, post Post) error {
	target := p.target.Get()
	if target.Zero() {
		return ErrNoTarget
	}

	err := p.poster.SendPost(ctx, target, post)
	if err == nil {
		p.log.Info("post published", "chat_id", target.ChatID, "thread_id", target.ThreadID)
		return nil
	}
	if target.ThreadID != 0 && isThreadIssue(err) {
		p.log.Warn("post failed in thread, retrying without thread",
			"chat_id", target.ChatID, "thread_id", target.ThreadID, "error", err)
		retryErr := p.poster.SendPost(ctx, domain.Recipient{ChatID: target.ChatID}, post)
		if retryErr == nil {
			p.log.Info("post published without thread", "chat_id", target.ChatID)
			return nil
		}
		return retryErr
	}
	return err
}

// isThreadIssue распознаёт ошибки Bot API про несуществующий или закрытый
// топик ("message thread not found", "TOPIC_CLOSED").
func isThreadIssue(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "thread") || strings.Contains(msg, "topic")
}
