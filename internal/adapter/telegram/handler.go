package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/config"
	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/usecase"
)

const (
	startText       = "📂 Добро пожаловать! Нажмите кнопку ниже, чтобы открыть каталог услуг:"
	startTextNoApp  = "📂 Добро пожаловать! Каталог временно недоступен."
	deniedText      = "⛔ Недостаточно прав для публикации."
	catalogButton   = "Магазин решений"
	defaultPostText = "<b>🔥Мы запустили мини-приложение прямо в Telegram🔥 </b>\n" +
		"Больше не нужно писать вручную или искать куда написать — просто выбирай услугу в каталоге и оставляй заявку! 👇"
)

type Handler struct {
	bot       *telego.Bot
	intake    *usecase.Intake
	publisher *usecase.Publisher
	target    *usecase.Target
	stats     *usecase.Stats
	adminIDs  map[int64]struct{}

	frontendURL string
	botUsername string
	log         *slog.Logger
}

func NewHandler(
	bot *telego.Bot,
	intake *usecase.Intake,
	publisher *usecase.Publisher,
	target *usecase.Target,
	stats *usecase.Stats,
	adminIDs map[int64]struct{},
	frontendURL string,
	log *slog.Logger,
) *Handler {
	return &Handler{
		bot:         bot,
		intake:      intake,
		publisher:   publisher,
		target:      target,
		stats:       stats,
		adminIDs:    adminIDs,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Run крутит long polling до отмены контекста. Каждая заявка обрабатывается
// синхронно, своего состояния между обновлениями у обработчика нет.
func (h *Handler) Run(ctx context.Context) error {
	if me, err := h.bot.GetMe(ctx); err == nil {
		h.botUsername = me.Username
		h.log.Info("bot authorized", "username", me.Username, "id", me.ID)
	} else {
		h.log.Warn("getMe failed", "error", err)
	}

	updates, err := h.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{Timeout: 30})
	if err != nil {
		return fmt.Errorf("long polling: %w", err)
	}
	for update := range updates {
		switch {
		case update.Message != nil:
			h.handleMessage(ctx, update.Message)
		case update.CallbackQuery != nil:
			h.handleCallback(ctx, update.CallbackQuery)
		}
	}
	return nil
}

func (h *Handler) handleMessage(ctx context.Context, msg *telego.Message) {
	// Данные из мини-приложения — основной входной канал.
	if msg.WebAppData != nil {
		origin := domain.Recipient{ChatID: msg.Chat.ID, ThreadID: msg.MessageThreadID}
		ack := h.intake.Handle(ctx, msg.WebAppData.Data, senderFrom(msg.From), origin)
		h.sendText(ctx, msg.Chat.ID, ack)
		return
	}

	if !strings.HasPrefix(msg.Text, "/") {
		return
	}
	cmd, args := splitCommand(msg.Text)

	switch cmd {
	case "/start":
		h.handleStart(ctx, msg.Chat.ID)
	case "/publish":
		if !h.isAdmin(msg) {
			h.sendText(ctx, msg.Chat.ID, deniedText)
			h.log.Warn("publish denied", "chat_id", msg.Chat.ID)
			return
		}
		h.handlePublish(ctx, msg, args)
	case "/bind":
		if !h.isAdmin(msg) {
			h.sendText(ctx, msg.Chat.ID, deniedText)
			return
		}
		h.handleBind(ctx, msg, args)
	case "/admin":
		if !h.isAdmin(msg) {
			h.sendText(ctx, msg.Chat.ID, "Доступ запрещен")
			h.log.Warn("admin denied", "chat_id", msg.Chat.ID)
			return
		}
		h.sendAdminMenu(ctx, msg.Chat.ID)
	case "/stats":
		if !h.isAdmin(msg) {
			h.sendText(ctx, msg.Chat.ID, "Доступ запрещен")
			return
		}
		h.sendStats(ctx, msg.Chat.ID)
	}
}

func (h *Handler) handleCallback(ctx context.Context, q *telego.CallbackQuery) {
	_ = h.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: q.ID})
	if q.Message == nil {
		return
	}
	chatID := q.Message.GetChat().ID
	if _, ok := h.adminIDs[q.From.ID]; !ok {
		return
	}
	if q.Data == "admin:stats" {
		h.sendStats(ctx, chatID)
	}
}

func (h *Handler) handleStart(ctx context.Context, chatID int64) {
	if h.frontendURL == "" {
		h.sendText(ctx, chatID, startTextNoApp)
		return
	}
	_, err := h.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   startText,
		ReplyMarkup: &telego.InlineKeyboardMarkup{
			InlineKeyboard: [][]telego.InlineKeyboardButton{{
				{Text: catalogButton, WebApp: &telego.WebAppInfo{URL: h.frontendURL}},
			}},
		},
	})
	if err != nil {
		h.log.Error("start reply failed", "chat_id", chatID, "error", err)
	}
}

// handlePublish собирает пост из аргументов ("Метка|https://... текст") либо из
// процитированного сообщения и публикует его в привязанный канал.
func (h *Handler) handlePublish(ctx context.Context, msg *telego.Message, args string) {
	post := h.buildPost(msg, args)
	if err := h.publisher.Publish(ctx, post); err != nil {
		if errors.Is(err, usecase.ErrNoTarget) {
			h.sendText(ctx, msg.Chat.ID, "❌ Канал не настроен: задайте CHANNEL_ID или выполните /bind в нужном чате.")
			return
		}
		h.sendText(ctx, msg.Chat.ID, "❌ Не удалось отправить пост: "+err.Error())
		return
	}
	h.sendText(ctx, msg.Chat.ID, "✅ Пост с кнопкой «"+post.ButtonLabel+"» опубликован в канал.")
}

func (h *Handler) buildPost(msg *telego.Message, args string) usecase.Post {
	post := usecase.Post{
		Text:        defaultPostText,
		ButtonLabel: "Каталог",
		ButtonURL:   fmt.Sprintf("https://t.me/%s?startapp=catalog", h.botUsername),
	}

	if label, rest, ok := strings.Cut(args, "|"); ok {
		post.ButtonLabel = strings.TrimSpace(label)
		fields := strings.Fields(rest)
		if len(fields) > 0 {
			post.ButtonURL = fields[0]
			if text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), fields[0])); text != "" {
				post.Text = text
			}
		}
	} else if args != "" {
		post.Text = args
	}

	// Текст и фото можно унаследовать из процитированного сообщения.
	if reply := msg.ReplyToMessage; reply != nil {
		switch {
		case reply.Text != "":
			post.Text = reply.Text
		case reply.Caption != "":
			post.Text = reply.Caption
		}
		if len(reply.Photo) > 0 {
			post.PhotoFileID = reply.Photo[len(reply.Photo)-1].FileID
		}
	}
	return post
}

func (h *Handler) handleBind(ctx context.Context, msg *telego.Message, args string) {
	target := domain.Recipient{ChatID: msg.Chat.ID, ThreadID: msg.MessageThreadID}
	if args != "" {
		if rs := config.ParseRecipients(args, 0); len(rs) > 0 {
			target = rs[0]
		} else {
			h.sendText(ctx, msg.Chat.ID, "Не удалось разобрать цель. Формат: /bind <chat_id[:topic_id]>")
			return
		}
	}
	h.target.Set(target)
	h.log.Info("publish target rebound", "chat_id", target.ChatID, "thread_id", target.ThreadID)
	h.sendText(ctx, msg.Chat.ID, "✅ Публикации привязаны к чату "+strconv.FormatInt(target.ChatID, 10)+".")
}

func (h *Handler) sendAdminMenu(ctx context.Context, chatID int64) {
	_, err := h.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   "Админ-меню",
		ReplyMarkup: &telego.InlineKeyboardMarkup{
			InlineKeyboard: [][]telego.InlineKeyboardButton{
				{{Text: "Статистика", CallbackData: "admin:stats"}},
			},
		},
	})
	if err != nil {
		h.log.Error("admin menu failed", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) sendStats(ctx context.Context, chatID int64) {
	labels, values, err := h.stats.GraphData()
	if err == nil {
		var png []byte
		if png, err = renderStatsChart(labels, values); err == nil {
			fname := "stats_" + strconv.FormatInt(time.Now().UnixNano(), 10) + ".png"
			_, err = h.bot.SendPhoto(ctx, &telego.SendPhotoParams{
				ChatID: tu.ID(chatID),
				Photo:  telego.InputFile{File: tu.NameReader(bytes.NewReader(png), fname)},
			})
		}
	}
	if err != nil {
		h.log.Error("stats chart failed", "error", err)
		h.sendText(ctx, chatID, h.stats.Summary())
	}
}

func (h *Handler) isAdmin(msg *telego.Message) bool {
	if len(h.adminIDs) == 0 || msg.From == nil {
		return false
	}
	_, ok := h.adminIDs[msg.From.ID]
	return ok
}

func (h *Handler) sendText(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   text,
	})
	if err != nil {
		h.log.Error("send failed", "chat_id", chatID, "error", err)
	}
}

// splitCommand отделяет команду от аргументов и отрезает суффикс @botname.
func splitCommand(text string) (cmd, args string) {
	cmd, args, _ = strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd, strings.TrimSpace(args)
}

func senderFrom(u *telego.User) *domain.Sender {
	if u == nil {
		return nil
	}
	name := strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName}, " "))
	return &domain.Sender{
		DisplayName: name,
		Handle:      u.Username,
		NumericID:   u.ID,
	}
}
