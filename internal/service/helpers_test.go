package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"iglesia360/internal/model"
	"iglesia360/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.WorkflowEvent
}

func (n *recordingNotifier) Publish(e model.WorkflowEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) types() []model.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.EventType, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	deps      WorkflowDeps
	solicit   SolicitudService
	approvals ApprovalService
	audit     *memory.AuditRepository
	notifier  *recordingNotifier
}

// newFixture wires the workflow on memory repositories holding users 1..4
// (1 admin, 2 tesorero, 3 pastor_red, 4 usuario) and ministry 1.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	users := memory.NewUserRepository()
	for _, u := range []model.User{
		{Email: "admin@test.org", Name: "Admin", Status: model.UserActive, Roles: model.Roles{model.RoleAdmin}},
		{Email: "tesorero@test.org", Name: "Tesorera", Status: model.UserActive, Roles: model.Roles{model.RoleTesorero}},
		{Email: "pastor@test.org", Name: "Pastor", Status: model.UserActive, Roles: model.Roles{model.RolePastorRed}},
		{Email: "miembro@test.org", Name: "Miembro", Status: model.UserActive, Roles: model.Roles{model.RoleUsuario}},
	} {
		u := u
		require.NoError(t, users.Create(ctx, &u))
	}

	ministries := memory.NewMinistryRepository()
	require.NoError(t, ministries.Create(ctx, &model.Ministry{Code: "MIN001", Name: "Alabanza", Status: model.MinistryActive}))

	audit := memory.NewAuditRepository()
	notifier := &recordingNotifier{}
	deps := WorkflowDeps{
		Solicitudes:     memory.NewSolicitudRepository(),
		Ministries:      ministries,
		Users:           users,
		Audit:           audit,
		Tx:              memory.NewTransactionManager(),
		Notifier:        notifier,
		Locks:           NewIDLocker(),
		TreasurerUserID: 99,
		Now:             func() time.Time { return testNow },
	}
	return &fixture{
		deps:      deps,
		solicit:   NewSolicitudService(deps),
		approvals: NewApprovalService(deps),
		audit:     audit,
		notifier:  notifier,
	}
}

func amounts(values ...int64) []ItemInput {
	items := make([]ItemInput, len(values))
	for i, v := range values {
		items[i] = ItemInput{Description: "item", Amount: decimal.NewFromInt(v)}
	}
	return items
}

func validCreate(values ...int64) CreateSolicitudRequest {
	return CreateSolicitudRequest{
		MinistryID:        1,
		ResponsibleUserID: 3,
		Title:             "Equipos de sonido",
		Description:       "Compra de micrófonos",
		Items:             amounts(values...),
	}
}

func (f *fixture) create(t *testing.T, values ...int64) *model.Solicitud {
	t.Helper()
	s, err := f.solicit.Create(context.Background(), 4, validCreate(values...))
	require.NoError(t, err)
	return s
}

func (f *fixture) submitted(t *testing.T, values ...int64) *model.Solicitud {
	t.Helper()
	s := f.create(t, values...)
	s, err := f.solicit.Submit(context.Background(), 4, s.ID, SubmitSolicitudRequest{})
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }
