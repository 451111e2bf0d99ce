package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

func mustNormalize(t *testing.T, raw string) Payload {
	t.Helper()
	p, err := Normalize(raw)
	require.NoError(t, err)
	return p
}

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Kind
	}{
		{
			name: "send_request_form",
			raw:  `{"action":"send_request_form","name":"Ann"}`,
			want: domain.KindRequestForm,
		},
		{
			name: "send_request_form wins over type lead",
			raw:  `{"type":"lead","action":"send_request_form"}`,
			want: domain.KindRequestForm,
		},
		{
			name: "send_request from product card",
			raw:  `{"type":"lead","action":"send_request","product":{"id":"tma","title":"Mini App"}}`,
			want: domain.KindRequestForm,
		},
		{
			// Закон порядка правил: consult богаче generic-шаблона и обязан
			// побеждать при одновременных type:lead и action:consult.
			name: "consult wins over type lead",
			raw:  `{"type":"lead","action":"consult","contact":"@ann"}`,
			want: domain.KindConsult,
		},
		{
			name: "bare consult",
			raw:  `{"action":"consult","contact":"@ann"}`,
			want: domain.KindConsult,
		},
		{
			name: "type lead without action",
			raw:  `{"type":"lead","service":"ТМА","phone":"+7 900"}`,
			want: domain.KindGeneric,
		},
		{
			name: "send_cart",
			raw:  `{"action":"send_cart","items":[{"id":"tma","title":"Mini App"}]}`,
			want: domain.KindCart,
		},
		{
			name: "unrecognized action",
			raw:  `{"action":"selfdestruct"}`,
			want: domain.KindUnknown,
		},
		{
			name: "no discriminators at all",
			raw:  `{"hello":"world"}`,
			want: domain.KindUnknown,
		},
		{
			name: "type-mismatched tags map to unknown",
			raw:  `{"action":42,"type":["lead"]}`,
			want: domain.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := Classify(mustNormalize(t, tt.raw), nil, time.Now())
			assert.Equal(t, tt.want, lead.Kind)
		})
	}
}

func TestClassifyFields(t *testing.T) {
	receivedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sender := &domain.Sender{DisplayName: "Ann", Handle: "ann", NumericID: 7}

	p := mustNormalize(t, `{
		"action":"send_request_form",
		"service":"ТМА",
		"name":"Ann",
		"phone":"+7 900 000 00 00",
		"city":"Санкт-Петербург",
		"comment":"срочно"
	}`)
	lead := Classify(p, sender, receivedAt)

	assert.Equal(t, domain.KindRequestForm, lead.Kind)
	assert.Equal(t, "ТМА", lead.Service)
	assert.Equal(t, "Ann", lead.Name)
	assert.Equal(t, "+7 900 000 00 00", lead.Phone)
	assert.Equal(t, "Санкт-Петербург", lead.City)
	assert.Equal(t, "срочно", lead.Comment)
	assert.Equal(t, sender, lead.Sender)
	assert.Equal(t, receivedAt, lead.CreatedAt)
}

func TestClassifyCartItems(t *testing.T) {
	p := mustNormalize(t, `{"action":"send_cart","items":[
		{"id":"tma","title":"Mini App"},
		{"id":"tg-bot","title":"TG-бот"},
		"garbage"
	]}`)
	lead := Classify(p, nil, time.Now())

	require.Equal(t, domain.KindCart, lead.Kind)
	assert.Equal(t, []domain.ProductRef{
		{ID: "tma", Title: "Mini App"},
		{ID: "tg-bot", Title: "TG-бот"},
	}, lead.Items)
}

func TestClassifyUnknownRetainsStructure(t *testing.T) {
	p := mustNormalize(t, `{"foo":{"bar":1}}`)
	lead := Classify(p, nil, time.Now())

	require.Equal(t, domain.KindUnknown, lead.Kind)
	assert.NotNil(t, lead.Raw)
}

func TestClassifyNonObjectWrapsIntoGeneric(t *testing.T) {
	receivedAt := time.Now()
	p := mustNormalize(t, `"просто строка"`)
	lead := Classify(p, nil, receivedAt)

	assert.Equal(t, domain.KindGeneric, lead.Kind)
	assert.Equal(t, `"просто строка"`, lead.Comment)
	assert.Equal(t, receivedAt, lead.CreatedAt)
}

func TestClassifyTimestamp(t *testing.T) {
	fallback := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("from at field", func(t *testing.T) {
		p := mustNormalize(t, `{"action":"consult","at":"2024-04-30T10:30:00Z"}`)
		lead := Classify(p, nil, fallback)
		assert.Equal(t, time.Date(2024, 4, 30, 10, 30, 0, 0, time.UTC), lead.CreatedAt)
	})

	t.Run("from ts millis", func(t *testing.T) {
		p := mustNormalize(t, `{"action":"consult","ts":1714472000000}`)
		lead := Classify(p, nil, fallback)
		assert.Equal(t, time.UnixMilli(1714472000000), lead.CreatedAt)
	})

	t.Run("fallback to receipt time", func(t *testing.T) {
		p := mustNormalize(t, `{"action":"consult","at":"not a date"}`)
		lead := Classify(p, nil, fallback)
		assert.Equal(t, fallback, lead.CreatedAt)
	})
}
