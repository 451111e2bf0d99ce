package usecase

import (
	"fmt"
	"strings"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// Stats считает принятые заявки по категориям поверх архива лидов.
type Stats struct {
	leads domain.LeadRepository
	order []domain.Kind
}

func NewStats(leads domain.LeadRepository) *Stats {
	return &Stats{
		leads: leads,
		order: []domain.Kind{
			domain.KindRequestForm,
			domain.KindConsult,
			domain.KindCart,
			domain.KindGeneric,
			domain.KindUnknown,
		},
	}
}

// Summary — текстовая сводка с псевдографикой, запасной вариант когда
// не удалось отрисовать картинку.
func (s *Stats) Summary() string {
	counts, err := s.leads.CountByKind()
	if err != nil || len(counts) == 0 {
		return "Данных по заявкам пока нет"
	}
	max := 0
	for _, k := range s.order {
		if counts[k] > max {
			max = counts[k]
		}
	}
	var b strings.Builder
	b.WriteString("Заявки по категориям:\n")
	for _, k := range s.order {
		fmt.Fprintf(&b, "- %s: %d %s\n", kindLabel(k), counts[k], bar20(counts[k], max))
	}
	return b.String()
}

// GraphData возвращает метки и значения в фиксированном порядке категорий.
func (s *Stats) GraphData() ([]string, []int, error) {
	counts, err := s.leads.CountByKind()
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, 0, len(s.order))
	values := make([]int, 0, len(s.order))
	for _, k := range s.order {
		labels = append(labels, kindLabel(k))
		values = append(values, counts[k])
	}
	return labels, values, nil
}

func bar20(val, max int) string {
	if max <= 0 {
		return ""
	}
	filled := (20 * val) / max
	if filled < 0 {
		filled = 0
	}
	if filled > 20 {
		filled = 20
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 20-filled) + "]"
}

func kindLabel(k domain.Kind) string {
	switch k {
	case domain.KindRequestForm:
		return "Форма заявки"
	case domain.KindConsult:
		return "Консультация"
	case domain.KindCart:
		return "Корзина"
	case domain.KindGeneric:
		return "Лид"
	case domain.KindUnknown:
		return "Прочее"
	default:
		return string(k)
	}
}
