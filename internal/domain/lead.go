package domain

import "time"

// Kind — категория лида, определённая классификатором по полям action/type.
type Kind string

const (
	KindRequestForm Kind = "request_form"
	KindConsult     Kind = "consult"
	KindCart        Kind = "cart"
	KindGeneric     Kind = "generic_lead"
	KindUnknown     Kind = "unknown"
)

// ProductRef — ссылка на позицию каталога из мини-приложения.
type ProductRef struct {
	ID    string
	Title string
}

// Sender — отправитель заявки; заполняется транспортным слоем, не клиентом.
type Sender struct {
	DisplayName string
	Handle      string
	NumericID   int64
}

type Lead struct {
	Kind    Kind
	Product *ProductRef
	Items   []ProductRef

	Name    string
	Phone   string
	Contact string
	City    string
	Comment string
	Message string
	Service string

	Sender *Sender
	// Raw хранит исходную структуру для kind == unknown (показывается как есть).
	Raw       any
	CreatedAt time.Time
}

type LeadRepository interface {
	SaveLead(lead Lead) error
	CountByKind() (map[Kind]int, error)
}
