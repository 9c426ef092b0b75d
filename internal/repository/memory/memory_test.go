package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft(ministryID uint, created time.Time, amounts ...int64) *model.Solicitud {
	s := &model.Solicitud{
		MinistryID:      ministryID,
		RequesterUserID: 5,
		Title:           "Compra",
		Description:     "Materiales",
		Status:          model.StatusBorrador,
		PaymentType:     model.PaymentUnoMismo,
		CreatedAt:       created,
	}
	items := make([]model.SolicitudItem, len(amounts))
	for i, a := range amounts {
		items[i] = model.SolicitudItem{Description: "item", Amount: decimal.NewFromInt(a)}
	}
	s.SetItems(items)
	return s
}

func TestSolicitudInsertAssignsSequentialCodes(t *testing.T) {
	ctx := context.Background()
	repo := NewSolicitudRepository()

	for i := 1; i <= 3; i++ {
		s := draft(1, time.Now(), 100)
		require.NoError(t, repo.Insert(ctx, s))
		assert.Equal(t, uint(i), s.ID)
		assert.Equal(t, fmt.Sprintf("SOL%03d", i), s.Code)
		assert.NotZero(t, s.Items[0].ID)
		assert.Equal(t, s.ID, s.Items[0].SolicitudID)
	}
}

func TestSolicitudConcurrentInsertsGetDistinctCodes(t *testing.T) {
	ctx := context.Background()
	repo := NewSolicitudRepository()

	const n = 50
	codes := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := draft(1, time.Now(), 10)
			_ = repo.Insert(ctx, s)
			codes[i] = s.Code
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, c := range codes {
		assert.False(t, seen[c], c)
		seen[c] = true
	}
	assert.Len(t, seen, n)
}

func TestSolicitudReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSolicitudRepository()

	s := draft(1, time.Now(), 800, 1200)
	require.NoError(t, repo.Insert(ctx, s))

	// the caller's value is not the stored one
	s.Title = "changed by caller"

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Compra", got.Title)

	got.Items[0].Description = "mutated"
	got.Status = model.StatusAprobado

	again, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "item", again.Items[0].Description)
	assert.Equal(t, model.StatusBorrador, again.Status)
}

func TestSolicitudFindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewSolicitudRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := draft(1, base, 1)
	b := draft(2, base.Add(time.Hour), 1)
	c := draft(1, base.Add(time.Hour), 1)
	for _, s := range []*model.Solicitud{a, b, c} {
		require.NoError(t, repo.Insert(ctx, s))
	}

	all, err := repo.FindAll(ctx, model.SolicitudFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID, b.ID, a.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	ministry1, err := repo.FindAll(ctx, model.SolicitudFilter{MinistryID: 1})
	require.NoError(t, err)
	assert.Len(t, ministry1, 2)
}

func TestSolicitudReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewSolicitudRepository()

	s := draft(1, time.Now(), 100)
	require.NoError(t, repo.Insert(ctx, s))

	s.Approvals = append(s.Approvals, model.ApprovalInfo{ApproverUserID: 3, ApprovalOrder: 1, Status: model.ApprovalPendiente})
	require.NoError(t, repo.Replace(ctx, s))
	assert.NotZero(t, s.Approvals[0].ID)

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Approvals, 1)
	assert.Equal(t, s.ID, got.Approvals[0].SolicitudID)

	assert.ErrorIs(t, repo.Replace(ctx, &model.Solicitud{ID: 77}), repository.ErrNotFound)
	_, err = repo.FindByID(ctx, 77)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := &model.User{Email: "ana@iglesia.org", Name: "Ana", Status: model.UserActive, Roles: model.Roles{model.RoleTesorero}}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &model.User{Email: "Ana@Iglesia.org"}), repository.ErrDuplicate)

	got, err := repo.FindByEmail(ctx, "ANA@iglesia.org")
	require.NoError(t, err)
	got.Roles[0] = model.RoleAdmin

	again, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Roles{model.RoleTesorero}, again.Roles)

	other := &model.User{Email: "luis@iglesia.org", Name: "Luis", Status: model.UserActive}
	require.NoError(t, repo.Create(ctx, other))
	other.Email = "ana@iglesia.org"
	assert.ErrorIs(t, repo.Update(ctx, other), repository.ErrDuplicate)

	treasurers, err := repo.FindAll(ctx, model.UserFilter{Role: model.RoleTesorero})
	require.NoError(t, err)
	require.Len(t, treasurers, 1)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), repository.ErrNotFound)
	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMinistryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMinistryRepository()

	require.NoError(t, repo.Create(ctx, &model.Ministry{Code: "MIN001", Name: "Alabanza", Status: model.MinistryActive}))
	require.NoError(t, repo.Create(ctx, &model.Ministry{Code: "MIN002", Name: "Niños", Status: model.MinistryInactive}))
	assert.ErrorIs(t, repo.Create(ctx, &model.Ministry{Code: "MIN001"}), repository.ErrDuplicate)

	all, err := repo.FindAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.FindAll(ctx, model.MinistryActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "MIN001", active[0].Code)
}

func TestAuditRepositoryPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Log(ctx, &model.AuditLog{SolicitudID: uint(i%2 + 1), Action: model.ActionUpdate, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	history, err := repo.ListBySolicitud(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].CreatedAt.Before(history[2].CreatedAt))

	page, total, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, base.Add(2*time.Minute), page[0].CreatedAt)

	beyond, _, err := repo.List(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	negative, _, err := repo.List(ctx, -4, 2)
	require.NoError(t, err)
	assert.Empty(t, negative)
}

func TestTransactionManagerRunsCallback(t *testing.T) {
	called := false
	err := NewTransactionManager().RunInTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
