package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"iglesia360/internal/middleware"
	"iglesia360/internal/repository/memory"
	"iglesia360/internal/seed"
	"iglesia360/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	tokens *middleware.JWT
}

// envelope mirrors response.Response and response.Paginated for decoding
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// newTestServer wires every handler on seeded memory repositories.
// Anonymous callers act as user 5 (requests) and user 2 (approvals).
// Options may swap dependencies before the services are built.
func newTestServer(t *testing.T, opts ...func(*service.WorkflowDeps)) *testServer {
	t.Helper()

	users := memory.NewUserRepository()
	ministries := memory.NewMinistryRepository()
	solicitudes := memory.NewSolicitudRepository()
	audit := memory.NewAuditRepository()
	require.NoError(t, seed.Run(context.Background(), seed.Repositories{
		Users: users, Ministries: ministries, Solicitudes: solicitudes,
	}, testNow))

	deps := service.WorkflowDeps{
		Solicitudes:     solicitudes,
		Ministries:      ministries,
		Users:           users,
		Audit:           audit,
		Tx:              memory.NewTransactionManager(),
		Locks:           service.NewIDLocker(),
		TreasurerUserID: 2,
		Now:             func() time.Time { return testNow },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	tokens := middleware.NewJWT([]byte("handler-test"), time.Hour)
	auditService := service.NewAuditService(deps.Audit, deps.Solicitudes)
	userService := service.NewUserService(deps.Users, tokens)

	router := NewRouter(tokens, []string{"http://localhost:5173"},
		NewSystemHandler("pong"),
		NewSolicitudHandler(service.NewSolicitudService(deps), auditService, 5),
		NewApprovalHandler(service.NewApprovalService(deps), 2),
		NewUserHandler(userService, 5),
		NewAuthHandler(userService, time.Hour),
		NewMinistryHandler(service.NewMinistryService(deps.Ministries)),
		NewAuditHandler(auditService),
		NewRoleHandler(),
	)
	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func createBody(amounts ...int) map[string]interface{} {
	items := make([]map[string]interface{}, len(amounts))
	for i, a := range amounts {
		items[i] = map[string]interface{}{"description": "Item", "amount": a}
	}
	return map[string]interface{}{
		"ministryId":        1,
		"responsibleUserId": 4,
		"title":             "Compra de sillas",
		"description":       "Sillas para el salón principal",
		"paymentType":       "uno_mismo",
		"items":             items,
	}
}
