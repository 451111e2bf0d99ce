package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// LeadRepo — архив принятых заявок. Только запись и агрегаты для статистики;
// для повторной доставки архив не используется.
type LeadRepo struct {
	db *sql.DB
}

func NewLeadRepo(dsn string) (*LeadRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &LeadRepo{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS leads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    service TEXT,
    name TEXT,
    phone TEXT,
    contact TEXT,
    city TEXT,
    comment TEXT,
    message TEXT,
    items_json TEXT,
    sender_id INTEGER,
    sender_handle TEXT,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_kind ON leads(kind);
`)
	return err
}

func (r *LeadRepo) SaveLead(lead domain.Lead) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	service := lead.Service
	if lead.Product != nil && lead.Product.Title != "" {
		service = lead.Product.Title
	}
	var itemsJSON string
	if len(lead.Items) > 0 {
		if data, err := json.Marshal(lead.Items); err == nil {
			itemsJSON = string(data)
		}
	}
	var senderID int64
	var senderHandle string
	if lead.Sender != nil {
		senderID = lead.Sender.NumericID
		senderHandle = lead.Sender.Handle
	}
	_, err := r.db.Exec(`INSERT INTO leads(kind, service, name, phone, contact, city, comment, message, items_json, sender_id, sender_handle, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		string(lead.Kind), service, lead.Name, lead.Phone, lead.Contact, lead.City,
		lead.Comment, lead.Message, itemsJSON, senderID, senderHandle, lead.CreatedAt)
	return err
}

func (r *LeadRepo) CountByKind() (map[domain.Kind]int, error) {
	rows, err := r.db.Query(`SELECT kind, COUNT(*) FROM leads GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[domain.Kind(kind)] = n
	}
	return counts, rows.Err()
}
