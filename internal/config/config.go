package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// Config — конфигурация процесса; читается один раз на старте и далее неизменна.
// Обязателен только токен бота, остальное деградирует до предупреждения.
type Config struct {
	BotToken string `env:"BOT_TOKEN,required,notEmpty"`

	// Список админ-чатов: "111, 222" либо "111:5" (чат:топик).
	AdminChatIDs  string `env:"ADMIN_CHAT_IDS"`
	AdminThreadID int    `env:"ADMIN_THREAD_ID"`

	// Канал для /publish и топик в нём.
	ChannelID       int64 `env:"CHANNEL_ID"`
	ChannelThreadID int   `env:"CHANNEL_THREAD_ID"`

	FrontendURL string `env:"FRONTEND_URL"`
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`

	LeadsSQLiteDSN string `env:"LEADS_SQLITE_DSN"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Recipients возвращает упорядоченный список получателей уведомлений.
// ADMIN_THREAD_ID применяется к записям без собственного топика.
func (c *Config) Recipients() []domain.Recipient {
	return ParseRecipients(c.AdminChatIDs, c.AdminThreadID)
}

// AdminIDs возвращает множество чатов, допущенных к привилегированным командам.
func (c *Config) AdminIDs() map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, r := range c.Recipients() {
		ids[r.ChatID] = struct{}{}
	}
	return ids
}

// ParseRecipients разбирает список вида "111, 222:5 333".
// Разделители — запятые и пробелы, некорректные элементы пропускаются.
func ParseRecipients(raw string, defaultThreadID int) []domain.Recipient {
	var out []domain.Recipient
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		r, err := parseRecipient(part, defaultThreadID)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

func parseRecipient(s string, defaultThreadID int) (domain.Recipient, error) {
	chatPart, threadPart, hasThread := strings.Cut(s, ":")
	chatID, err := strconv.ParseInt(chatPart, 10, 64)
	if err != nil {
		return domain.Recipient{}, fmt.Errorf("bad chat id %q: %w", s, err)
	}
	threadID := defaultThreadID
	if hasThread {
		threadID, err = strconv.Atoi(threadPart)
		if err != nil {
			return domain.Recipient{}, fmt.Errorf("bad thread id %q: %w", s, err)
		}
	}
	return domain.Recipient{ChatID: chatID, ThreadID: threadID}, nil
}
