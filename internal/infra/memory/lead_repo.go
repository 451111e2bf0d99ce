package memory

import (
	"sync"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

// LeadRepo — архив лидов в памяти; используется в тестах и при запуске без DSN.
type LeadRepo struct {
	mu    sync.RWMutex
	leads []domain.Lead
}

func NewLeadRepo() *LeadRepo {
	return &LeadRepo{}
}

func (r *LeadRepo) SaveLead(lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, lead)
	return nil
}

func (r *LeadRepo) CountByKind() (map[domain.Kind]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.Kind]int)
	for _, l := range r.leads {
		counts[l.Kind]++
	}
	return counts, nil
}

// Leads возвращает копию архива (для тестов).
func (r *LeadRepo) Leads() []domain.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Lead, len(r.leads))
	copy(out, r.leads)
	return out
}
