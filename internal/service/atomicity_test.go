package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"iglesia360/internal/database"
	"iglesia360/internal/model"
	"iglesia360/internal/repository"
	"iglesia360/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// failingAudit writes nothing and fails every Log call
type failingAudit struct {
	repository.AuditRepository
}

func (failingAudit) Log(context.Context, *model.AuditLog) error {
	return errors.New("audit store unavailable")
}

func TestFailedAuditRollsBackSubmit(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(sqlite.Open("file:" + t.Name() + "?mode=memory&cache=shared"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	require.NoError(t, users.Create(ctx, &model.User{Email: "t@x.org", Name: "Tesorera", Status: model.UserActive, Roles: model.Roles{model.RoleTesorero}}))

	deps := WorkflowDeps{
		Solicitudes: repository.NewSolicitudRepository(db),
		Ministries:  repository.NewMinistryRepository(db),
		Users:       users,
		Audit:       repository.NewAuditRepository(db),
		Tx:          repository.NewTransactionManager(db),
		Now:         func() time.Time { return testNow },
	}
	created, err := NewSolicitudService(deps).Create(ctx, 1, validCreate(6000))
	require.NoError(t, err)

	deps.Audit = failingAudit{deps.Audit}
	_, err = NewSolicitudService(deps).Submit(ctx, 1, created.ID, SubmitSolicitudRequest{})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindUnexpected))

	stored, err := deps.Solicitudes.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBorrador, stored.Status)
	assert.Nil(t, stored.SubmittedAt)
	assert.Empty(t, stored.Approvals)
}
