package repository

import (
	"context"
	"testing"
	"time"

	"iglesia360/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepositoryOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository(setupTestDB(t))
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	actions := []string{model.ActionCreate, model.ActionSubmit, model.ActionApprove}
	for i, action := range actions {
		require.NoError(t, repo.Log(ctx, &model.AuditLog{SolicitudID: 1, UserID: 5, Action: action, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}
	require.NoError(t, repo.Log(ctx, &model.AuditLog{SolicitudID: 2, UserID: 5, Action: model.ActionCreate, CreatedAt: base.Add(time.Hour)}))

	history, err := repo.ListBySolicitud(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, action := range actions {
		assert.Equal(t, action, history[i].Action)
	}

	page, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 2)
	assert.Equal(t, uint(2), page[0].SolicitudID)
	assert.Equal(t, model.ActionApprove, page[1].Action)

	beyond, total, err := repo.List(ctx, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Empty(t, beyond)
}

func TestMinistryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMinistryRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.Ministry{Code: "MIN001", Name: "Alabanza", Status: model.MinistryActive}))
	require.NoError(t, repo.Create(ctx, &model.Ministry{Code: "MIN002", Name: "Jóvenes", Status: model.MinistryInactive}))
	assert.ErrorIs(t, repo.Create(ctx, &model.Ministry{Code: "MIN001", Name: "Otro", Status: model.MinistryActive}), ErrDuplicate)

	active, err := repo.FindAll(ctx, model.MinistryActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Alabanza", active[0].Name)

	m, err := repo.FindByID(ctx, active[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "MIN001", m.Code)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
