package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/db"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

type mockPartStore struct {
	mockCodes
	parts   map[uuid.UUID]*models.Part
	created *models.Part
}

func (m *mockPartStore) ListParts(_ context.Context) ([]*models.Part, error) {
	var out []*models.Part
	for _, p := range m.parts {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPartStore) GetPartByID(_ context.Context, id uuid.UUID) (*models.Part, error) {
	if p, ok := m.parts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("part %s: %w", id, db.ErrNotFound)
}

func (m *mockPartStore) CreatePart(_ context.Context, p *models.Part) error {
	m.created = p
	return nil
}

func (m *mockPartStore) UpdatePart(_ context.Context, _ *models.Part) error { return nil }

func (m *mockPartStore) DeletePart(_ context.Context, _ uuid.UUID) error { return nil }

func TestPartsHandler_Create(t *testing.T) {
	admin := testUser(models.RoleAdmin)

	t.Run("min stock", func(t *testing.T) {
		store := &mockPartStore{parts: map[uuid.UUID]*models.Part{}}
		r := setupTestRouter(NewPartsHandler(store, zerolog.Nop()), admin)
		w := doRequest(r, http.MethodPost, "/api/v1/parts", map[string]any{"code": "P-1", "name": "Bearing", "unit": "pcs", "min_stock": 4})
		assertStatus(t, w, http.StatusCreated)
		if store.created.MinStock == nil || *store.created.MinStock != 4 {
			t.Errorf("unexpected min stock %v", store.created.MinStock)
		}
	})

	t.Run("negative min stock", func(t *testing.T) {
		store := &mockPartStore{parts: map[uuid.UUID]*models.Part{}}
		r := setupTestRouter(NewPartsHandler(store, zerolog.Nop()), admin)
		w := doRequest(r, http.MethodPost, "/api/v1/parts", map[string]any{"code": "P-1", "name": "Bearing", "min_stock": -1})
		assertStatus(t, w, http.StatusBadRequest)
	})
}

func TestPartsHandler_Get(t *testing.T) {
	part := models.NewPart("P-1", "Bearing")
	store := &mockPartStore{parts: map[uuid.UUID]*models.Part{part.ID: part}}
	r := setupTestRouter(NewPartsHandler(store, zerolog.Nop()), testUser(models.RoleViewer))

	assertStatus(t, doRequest(r, http.MethodGet, "/api/v1/parts/"+part.ID.String(), nil), http.StatusOK)
	assertStatus(t, doRequest(r, http.MethodGet, "/api/v1/parts/"+uuid.NewString(), nil), http.StatusNotFound)
}
