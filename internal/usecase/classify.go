package usecase

import (
	"time"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// Мини-приложение исторически шлёт несколько пересекающихся форм полезной
// нагрузки (send_request, send_request_form, consult, send_cart, type: lead).
// Классификация — упорядоченный список правил, первое совпавшее побеждает.
// Порядок — часть контракта: запись с type: lead И action: consult должна
// стать consult, а не generic_lead; менять его или сворачивать в map нельзя.
var classification = []struct {
	match func(action, typ string) bool
	kind  domain.Kind
}{
	{func(a, _ string) bool { return a == "send_request" || a == "send_request_form" }, domain.KindRequestForm},
	{func(a, _ string) bool { return a == "consult" }, domain.KindConsult},
	{func(_, t string) bool { return t == "lead" }, domain.KindGeneric},
	{func(a, _ string) bool { return a == "send_cart" }, domain.KindCart},
}

// Classify определяет категорию лида и извлекает поля под неё.
// Любая нераспознанная форма — KindUnknown с сохранением исходной структуры,
// ошибок здесь не бывает.
func Classify(p Payload, sender *domain.Sender, receivedAt time.Time) domain.Lead {
	if p.Object == nil {
		// Валидный JSON, но не объект: показываем как есть.
		return domain.Lead{
			Kind:      domain.KindGeneric,
			Comment:   p.Raw,
			Sender:    sender,
			CreatedAt: receivedAt,
		}
	}

	action := str(p.Object, "action")
	typ := str(p.Object, "type")

	kind := domain.KindUnknown
	for _, rule := range classification {
		if rule.match(action, typ) {
			kind = rule.kind
			break
		}
	}

	lead := domain.Lead{
		Kind:      kind,
		Product:   productRef(p.Object["product"]),
		Name:      str(p.Object, "name"),
		Phone:     str(p.Object, "phone"),
		Contact:   str(p.Object, "contact"),
		City:      str(p.Object, "city"),
		Comment:   str(p.Object, "comment"),
		Message:   str(p.Object, "message"),
		Service:   str(p.Object, "service"),
		Sender:    sender,
		CreatedAt: payloadTime(p.Object, receivedAt),
	}
	if kind == domain.KindCart {
		lead.Items = itemRefs(p.Object["items"])
	}
	if kind == domain.KindUnknown {
		lead.Raw = p.Object
	}
	return lead
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func productRef(v any) *domain.ProductRef {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	ref := domain.ProductRef{ID: str(m, "id"), Title: str(m, "title")}
	if ref.ID == "" && ref.Title == "" {
		return nil
	}
	return &ref
}

func itemRefs(v any) []domain.ProductRef {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	refs := make([]domain.ProductRef, 0, len(list))
	for _, it := range list {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		refs = append(refs, domain.ProductRef{ID: str(m, "id"), Title: str(m, "title")})
	}
	return refs
}

// payloadTime берёт момент из полей клиента (at: RFC 3339, ts: unix-миллисекунды),
// иначе — время получения.
func payloadTime(m map[string]any, fallback time.Time) time.Time {
	if at := str(m, "at"); at != "" {
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			return t
		}
	}
	if ts, ok := m["ts"].(float64); ok && ts > 0 {
		return time.UnixMilli(int64(ts))
	}
	return fallback
}
