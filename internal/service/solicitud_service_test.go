package service

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"iglesia360/internal/model"
	"iglesia360/internal/validation"
	"iglesia360/pkg/apperror"
	"iglesia360/pkg/pagination"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComputesTotalAndCode(t *testing.T) {
	f := newFixture(t)

	s := f.create(t, 800, 1200, 500)

	assert.Regexp(t, regexp.MustCompile(`^SOL\d{3}$`), s.Code)
	assert.Equal(t, model.StatusBorrador, s.Status)
	assert.True(t, s.TotalAmount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, []int{1, 2, 3}, []int{s.Items[0].ItemNumber, s.Items[1].ItemNumber, s.Items[2].ItemNumber})
	assert.Equal(t, uint(4), s.RequesterUserID)
	assert.Equal(t, "Miembro", s.RequesterName)
	assert.Equal(t, "Pastor", s.ResponsibleName)
	assert.Equal(t, "Alabanza", s.MinistryName)
	assert.Equal(t, "PEN", s.Currency)
	assert.Equal(t, model.PaymentUnoMismo, s.PaymentType)
	assert.Empty(t, s.Approvals)
	assert.Equal(t, []model.EventType{model.EventSolicitudCreated}, f.notifier.types())
}

func TestCreateTotalAlwaysMatchesItems(t *testing.T) {
	f := newFixture(t)

	for _, values := range [][]int64{{1}, {5000}, {2500, 2500, 1}, {10, 20, 30, 40, 50}} {
		s := f.create(t, values...)
		var want int64
		for _, v := range values {
			want += v
		}
		assert.True(t, s.TotalAmount.Equal(decimal.NewFromInt(want)), "items %v", values)
		assert.True(t, s.TotalAmount.Equal(model.SumItems(s.Items)))
	}
}

func TestCreateDerivesAmountFromQuantityAndUnitPrice(t *testing.T) {
	f := newFixture(t)
	q, u := decimal.NewFromInt(40), decimal.RequireFromString("17.5")

	req := validCreate()
	req.Items = []ItemInput{{Description: "Comidas", Quantity: &q, UnitPrice: &u}}
	s, err := f.solicit.Create(context.Background(), 4, req)
	require.NoError(t, err)

	assert.True(t, s.Items[0].Amount.Equal(decimal.NewFromInt(700)))
	assert.True(t, s.TotalAmount.Equal(decimal.NewFromInt(700)))
}

func TestCreateValidation(t *testing.T) {
	cases := map[string]struct {
		mutate func(r *CreateSolicitudRequest)
		field  string
	}{
		"missing title":       {func(r *CreateSolicitudRequest) { r.Title = "" }, "title"},
		"blank description":   {func(r *CreateSolicitudRequest) { r.Description = "   " }, "description"},
		"missing ministry":    {func(r *CreateSolicitudRequest) { r.MinistryID = 0 }, "ministryId"},
		"missing responsible": {func(r *CreateSolicitudRequest) { r.ResponsibleUserID = 0 }, "responsibleUserId"},
		"no items":            {func(r *CreateSolicitudRequest) { r.Items = nil }, "items"},
		"empty items":         {func(r *CreateSolicitudRequest) { r.Items = []ItemInput{} }, "items"},
		"blank item":          {func(r *CreateSolicitudRequest) { r.Items[0].Description = " " }, "items[0].description"},
		"zero amount":         {func(r *CreateSolicitudRequest) { r.Items[1].Amount = decimal.Zero }, "items[1].amount"},
		"negative amount":     {func(r *CreateSolicitudRequest) { r.Items[1].Amount = decimal.NewFromInt(-3) }, "items[1].amount"},
		"unknown payment":     {func(r *CreateSolicitudRequest) { r.PaymentType = "cheque" }, "paymentType"},
		"terceros no detail":  {func(r *CreateSolicitudRequest) { r.PaymentType = model.PaymentTerceros }, "paymentDetail"},
		"terceros incomplete": {func(r *CreateSolicitudRequest) {
			r.PaymentType = model.PaymentTerceros
			r.ThirdParty = &validation.ThirdPartyAccount{BankName: "BCP", AccountNumber: "123"}
		}, "thirdParty.cci"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			req := validCreate(100, 200)
			tc.mutate(&req)

			_, err := f.solicit.Create(context.Background(), 4, req)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindValidation), err.Error())

			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Fields, tc.field)

			all, _, listErr := f.solicit.List(context.Background(), SolicitudFilter{Page: pagination.New(1, 10)})
			require.NoError(t, listErr)
			assert.Empty(t, all)
		})
	}
}

func TestCreateThirdPartyAccountIsRendered(t *testing.T) {
	f := newFixture(t)
	req := validCreate(300)
	req.PaymentType = model.PaymentTerceros
	req.ThirdParty = &validation.ThirdPartyAccount{
		BankName: "BCP", AccountNumber: "191-123", DocumentType: "DNI", Document: "12345678", CCI: "002191123",
	}

	s, err := f.solicit.Create(context.Background(), 4, req)
	require.NoError(t, err)

	assert.Equal(t, req.ThirdParty.Render(), s.PaymentDetail)
	parsed, ok := validation.ParseThirdParty(s.PaymentDetail)
	require.True(t, ok)
	assert.Equal(t, *req.ThirdParty, parsed)
}

func TestCreateGetRoundTrip(t *testing.T) {
	f := newFixture(t)
	req := validCreate(800, 1200)
	req.Currency = "usd"
	req.PaymentType = model.PaymentTerceros
	req.PaymentDetail = "Pagar a proveedor TechSound Inc."

	created, err := f.solicit.Create(context.Background(), 4, req)
	require.NoError(t, err)

	got, err := f.solicit.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, req.Title, got.Title)
	assert.Equal(t, req.Description, got.Description)
	assert.Equal(t, req.PaymentDetail, got.PaymentDetail)
}

func TestGetUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.solicit.Get(context.Background(), 404)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdatePatchesOnlyPresentFields(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, 100, 200)

	responsible := uint(1)
	updated, err := f.solicit.Update(context.Background(), 4, s.ID, UpdateSolicitudRequest{
		Title:             strPtr("Nuevo título"),
		ResponsibleUserID: &responsible,
		Items:             amounts(50, 60, 70),
	})
	require.NoError(t, err)

	assert.Equal(t, "Nuevo título", updated.Title)
	assert.Equal(t, s.Description, updated.Description)
	assert.Equal(t, "Admin", updated.ResponsibleName)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(180)))
	require.Len(t, updated.Items, 3)
	assert.Equal(t, 3, updated.Items[2].ItemNumber)

	stored, err := f.solicit.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Title, stored.Title)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(180)))
}

func TestUpdateRejectsBadPatch(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, 100)

	cases := map[string]UpdateSolicitudRequest{
		"blank title":  {Title: strPtr(" ")},
		"empty items":  {Items: []ItemInput{}},
		"zero amount":  {Items: amounts(0)},
		"terceros":     {PaymentType: func() *model.PaymentType { p := model.PaymentTerceros; return &p }()},
		"bad labelled": {PaymentType: func() *model.PaymentType { p := model.PaymentTerceros; return &p }(), PaymentDetail: strPtr("Banco: BCP\nCuenta: 1")},
	}
	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.solicit.Update(context.Background(), 4, s.ID, patch)
			assert.True(t, apperror.Is(err, apperror.KindValidation), "%v", err)

			stored, getErr := f.solicit.Get(context.Background(), s.ID)
			require.NoError(t, getErr)
			assert.Equal(t, s, stored)
		})
	}
}

func TestUpdateNonDraftFailsAndLeavesEntityUnchanged(t *testing.T) {
	f := newFixture(t)
	s := f.submitted(t, 3000)

	before, err := f.solicit.Get(context.Background(), s.ID)
	require.NoError(t, err)

	_, err = f.solicit.Update(context.Background(), 4, s.ID, UpdateSolicitudRequest{Title: strPtr("otro"), Items: amounts(1)})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInvalidState))

	// invalid patches still report the state problem first
	_, err = f.solicit.Update(context.Background(), 4, s.ID, UpdateSolicitudRequest{Title: strPtr("")})
	assert.True(t, apperror.Is(err, apperror.KindInvalidState))

	after, err := f.solicit.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.solicit.Update(context.Background(), 4, 12, UpdateSolicitudRequest{Title: strPtr("x")})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSubmitBuildsApprovalChain(t *testing.T) {
	cases := []struct {
		name              string
		amounts           []int64
		treasurerRequired bool
	}{
		{"above threshold", []int64{6000}, true},
		{"below threshold", []int64{3000}, false},
		{"exactly threshold", []int64{2500, 2500}, false},
		{"just above threshold", []int64{5000, 1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			s := f.submitted(t, tc.amounts...)

			assert.Equal(t, model.StatusPendiente, s.Status)
			require.NotNil(t, s.SubmittedAt)
			assert.Equal(t, testNow, *s.SubmittedAt)
			require.Len(t, s.Approvals, 2)

			first, second := s.Approvals[0], s.Approvals[1]
			assert.Equal(t, uint(3), first.ApproverUserID)
			assert.Equal(t, 1, first.ApprovalOrder)
			assert.True(t, first.RequiredApproval)
			assert.Equal(t, model.ApprovalPendiente, first.Status)

			assert.Equal(t, uint(2), second.ApproverUserID)
			assert.Equal(t, "Tesorera", second.ApproverName)
			assert.Equal(t, 2, second.ApprovalOrder)
			assert.Equal(t, tc.treasurerRequired, second.RequiredApproval)

			required := 0
			for _, a := range s.Approvals {
				if a.RequiredApproval {
					required++
				}
			}
			if tc.treasurerRequired {
				assert.Equal(t, 2, required)
			} else {
				assert.Equal(t, 1, required)
			}
		})
	}
}

func TestSubmitFallsBackToConfiguredTreasurer(t *testing.T) {
	f := newFixture(t)
	treasurer, err := f.deps.Users.FindByID(context.Background(), 2)
	require.NoError(t, err)
	treasurer.Status = model.UserInactive
	require.NoError(t, f.deps.Users.Update(context.Background(), treasurer))

	s := f.submitted(t, 100)
	assert.Equal(t, uint(99), s.Approvals[1].ApproverUserID)
}

func TestSubmitStoresComments(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, 100)

	s, err := f.solicit.Submit(context.Background(), 4, s.ID, SubmitSolicitudRequest{Comments: " urgente "})
	require.NoError(t, err)
	assert.Equal(t, "urgente", s.RequesterComments)
}

func TestSubmitTwiceFails(t *testing.T) {
	f := newFixture(t)
	s := f.submitted(t, 100)

	_, err := f.solicit.Submit(context.Background(), 4, s.ID, SubmitSolicitudRequest{})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInvalidState))

	stored, err := f.solicit.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Approvals, 2)
}

func TestSubmitUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.solicit.Submit(context.Background(), 4, 8, SubmitSolicitudRequest{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSubmitDefendsPaymentDetail(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, 100)

	// a draft stored without passing through create
	broken := s.Clone()
	broken.PaymentType = model.PaymentTerceros
	broken.PaymentDetail = ""
	require.NoError(t, f.deps.Solicitudes.Replace(context.Background(), broken))

	_, err := f.solicit.Submit(context.Background(), 4, s.ID, SubmitSolicitudRequest{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	stored, err := f.solicit.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBorrador, stored.Status)
}

func TestConcurrentSubmitOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, 100)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.solicit.Submit(context.Background(), 4, s.ID, SubmitSolicitudRequest{})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.True(t, apperror.Is(err, apperror.KindInvalidState))
		}
	}
	assert.Equal(t, 1, ok)
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	const n = 7
	for i := 0; i < n; i++ {
		f.create(t, 100)
	}

	for _, size := range []int{1, 3, 7, 10} {
		for page := 1; page <= 9; page++ {
			items, total, err := f.solicit.List(context.Background(), SolicitudFilter{Page: pagination.New(page, size)})
			require.NoError(t, err)

			want := n - (page-1)*size
			if want < 0 {
				want = 0
			}
			if want > size {
				want = size
			}
			assert.Equal(t, n, total)
			assert.Len(t, items, want, "page %d size %d", page, size)
		}
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, 100)
	second := f.submitted(t, 200)

	all, _, err := f.solicit.List(context.Background(), SolicitudFilter{Page: pagination.New(1, 10)})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// same creation instant, so the newer id comes first
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	pending, total, err := f.solicit.List(context.Background(), SolicitudFilter{
		SolicitudFilter: model.SolicitudFilter{Status: model.StatusPendiente},
		Page:            pagination.New(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, second.ID, pending[0].ID)

	none, total, err := f.solicit.List(context.Background(), SolicitudFilter{
		SolicitudFilter: model.SolicitudFilter{RequesterUserID: 1},
		Page:            pagination.New(1, 10),
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, none)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	f.create(t, 100)
	f.submitted(t, 200)
	approved := f.create(t, 300)
	completed := f.create(t, 400)

	for id, status := range map[uint]model.SolicitudStatus{approved.ID: model.StatusAprobado, completed.ID: model.StatusCompletado} {
		s, err := f.deps.Solicitudes.FindByID(context.Background(), id)
		require.NoError(t, err)
		s.Status = status
		require.NoError(t, f.deps.Solicitudes.Replace(context.Background(), s))
	}

	stats, err := f.solicit.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalSolicitudes)
	assert.Equal(t, 1, stats.PendingSolicitudes)
	assert.Equal(t, 2, stats.ApprovedSolicitudes)
	assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, stats.ApprovedAmount.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, 1, stats.Ministries)
	assert.Equal(t, 4, stats.Users)
}

func TestMutationsAreAudited(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, 100)
	_, err := f.solicit.Update(context.Background(), 4, s.ID, UpdateSolicitudRequest{Title: strPtr("x")})
	require.NoError(t, err)
	_, err = f.solicit.Submit(context.Background(), 4, s.ID, SubmitSolicitudRequest{})
	require.NoError(t, err)

	history, err := f.audit.ListBySolicitud(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, model.ActionCreate, history[0].Action)
	assert.Equal(t, model.ActionUpdate, history[1].Action)
	assert.Equal(t, model.ActionSubmit, history[2].Action)
	assert.Equal(t, "Miembro", history[2].UserName)
	assert.Contains(t, history[2].OldValue, `"status":"borrador"`)
	assert.Contains(t, history[2].NewValue, `"status":"pendiente"`)
}
