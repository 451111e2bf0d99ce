package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// Заглушка для пустых необязательных полей.
const emptyField = "—"

const timeLayout = "02.01.2006, 15:04:05"

// Telegram принимает parse_mode=HTML, поэтому пользовательский текст обязан
// экранироваться — иначе заявка с "<b>" в комментарии ломает разметку.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return htmlEscaper.Replace(s) }

func orDash(s string) string {
	if s == "" {
		return emptyField
	}
	return escape(s)
}

// FormatNotification — чистая функция: лид -> HTML-уведомление для админов.
// Один шаблон на категорию, в конце всегда блок с отправителем и временем.
func FormatNotification(lead domain.Lead) string {
	var b strings.Builder

	switch lead.Kind {
	case domain.KindRequestForm:
		b.WriteString("📩 <b>Новая заявка из Mini App</b>\n\n")
		fmt.Fprintf(&b, "<b>Услуга:</b> %s\n", orDash(productTitle(lead)))
		fmt.Fprintf(&b, "<b>Имя:</b> %s\n", orDash(lead.Name))
		fmt.Fprintf(&b, "<b>Телефон:</b> %s\n", orDash(lead.Phone))
		writeOptional(&b, "Город", lead.City)
		writeOptional(&b, "Комментарий", lead.Comment)

	case domain.KindConsult:
		b.WriteString("💬 <b>Запрос консультации</b>\n\n")
		title := productTitle(lead)
		if title == "" {
			title = "Общая консультация"
		}
		fmt.Fprintf(&b, "<b>Тема:</b> %s\n", escape(title))
		fmt.Fprintf(&b, "<b>Имя:</b> %s\n", orDash(lead.Name))
		fmt.Fprintf(&b, "<b>Контакт:</b> %s\n", orDash(lead.Contact))
		writeOptional(&b, "Сообщение", lead.Message)

	case domain.KindCart:
		b.WriteString("🛒 <b>Заявка из корзины</b>\n\n")
		b.WriteString("<b>Состав:</b>\n")
		if len(lead.Items) == 0 {
			b.WriteString(emptyField + "\n")
		}
		for _, it := range lead.Items {
			fmt.Fprintf(&b, "• %s (<code>%s</code>)\n", orDash(it.Title), escape(it.ID))
		}

	case domain.KindGeneric:
		b.WriteString("📨 <b>Новая заявка</b>\n\n")
		fmt.Fprintf(&b, "<b>Услуга:</b> %s\n", orDash(lead.Service))
		fmt.Fprintf(&b, "<b>Имя:</b> %s\n", orDash(lead.Name))
		fmt.Fprintf(&b, "<b>Телефон:</b> %s\n", orDash(lead.Phone))
		writeOptional(&b, "Город", lead.City)
		writeOptional(&b, "Комментарий", lead.Comment)

	default:
		b.WriteString("📦 <b>Данные из Mini App</b>\n\n")
		fmt.Fprintf(&b, "<pre>%s</pre>\n", escape(prettyRaw(lead.Raw)))
	}

	fmt.Fprintf(&b, "\n<b>Отправитель:</b> %s\n", formatSender(lead.Sender))
	fmt.Fprintf(&b, "<b>Время:</b> %s", lead.CreatedAt.Format(timeLayout))
	return b.String()
}

func writeOptional(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<b>%s:</b> %s\n", label, escape(value))
}

func productTitle(lead domain.Lead) string {
	if lead.Product != nil && lead.Product.Title != "" {
		return lead.Product.Title
	}
	return lead.Service
}

func formatSender(s *domain.Sender) string {
	if s == nil {
		return emptyField
	}
	var b strings.Builder
	b.WriteString(escape(s.DisplayName))
	if s.Handle != "" {
		b.WriteString(" @" + escape(s.Handle))
	}
	fmt.Fprintf(&b, " (id: <code>%d</code>)", s.NumericID)
	return b.String()
}

func prettyRaw(v any) string {
	if v == nil {
		return emptyField
	}
	// Экранирование HTML здесь выключено: им занимается escape() уровнем выше,
	// иначе структура печатается с < вместо символов.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
