package telegram

import (
	"context"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/usecase"
)

// Sender отправляет сообщения через Bot API; реализует порты
// domain.MessageSender и usecase.ChannelPoster.
type Sender struct {
	bot *telego.Bot
}

func NewSender(bot *telego.Bot) *Sender { return &Sender{bot: bot} }

func (s *Sender) SendHTML(ctx context.Context, to domain.Recipient, html string) error {
	params := &telego.SendMessageParams{
		ChatID:             tu.ID(to.ChatID),
		Text:               html,
		ParseMode:          telego.ModeHTML,
		LinkPreviewOptions: &telego.LinkPreviewOptions{IsDisabled: true},
	}
	if to.ThreadID != 0 {
		params.MessageThreadID = to.ThreadID
	}
	_, err := s.bot.SendMessage(ctx, params)
	return err
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := s.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   text,
	})
	return err
}

func (s *Sender) SendPost(ctx context.Context, to domain.Recipient, post usecase.Post) error {
	var markup *telego.InlineKeyboardMarkup
	if post.ButtonLabel != "" && post.ButtonURL != "" {
		markup = &telego.InlineKeyboardMarkup{
			InlineKeyboard: [][]telego.InlineKeyboardButton{{
				{Text: post.ButtonLabel, URL: post.ButtonURL},
			}},
		}
	}

	if post.PhotoFileID != "" {
		params := &telego.SendPhotoParams{
			ChatID:      tu.ID(to.ChatID),
			Photo:       telego.InputFile{FileID: post.PhotoFileID},
			Caption:     post.Text,
			ParseMode:   telego.ModeHTML,
			ReplyMarkup: markup,
		}
		if to.ThreadID != 0 {
			params.MessageThreadID = to.ThreadID
		}
		_, err := s.bot.SendPhoto(ctx, params)
		return err
	}

	params := &telego.SendMessageParams{
		ChatID:             tu.ID(to.ChatID),
		Text:               post.Text,
		ParseMode:          telego.ModeHTML,
		LinkPreviewOptions: &telego.LinkPreviewOptions{IsDisabled: true},
		ReplyMarkup:        markup,
	}
	if to.ThreadID != 0 {
		params.MessageThreadID = to.ThreadID
	}
	_, err := s.bot.SendMessage(ctx, params)
	return err
}
