package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
)

func TestLeadRepo(t *testing.T) {
	repo, err := NewLeadRepo(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)

	require.NoError(t, repo.SaveLead(domain.Lead{
		Kind:      domain.KindRequestForm,
		Product:   &domain.ProductRef{ID: "tma", Title: "Mini App"},
		Name:      "Ann",
		Phone:     "+7 900",
		Sender:    &domain.Sender{NumericID: 42, Handle: "ann"},
		CreatedAt: time.Now(),
	}))
	require.NoError(t, repo.SaveLead(domain.Lead{
		Kind:  domain.KindCart,
		Items: []domain.ProductRef{{ID: "tma", Title: "Mini App"}},
	}))
	require.NoError(t, repo.SaveLead(domain.Lead{Kind: domain.KindRequestForm}))

	counts, err := repo.CountByKind()
	require.NoError(t, err)
	assert.Equal(t, map[domain.Kind]int{
		domain.KindRequestForm: 2,
		domain.KindCart:        1,
	}, counts)
}
