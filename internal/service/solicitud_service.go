package service

import (
	"context"
	"strings"

	"iglesia360/internal/model"
	"iglesia360/internal/validation"
	"iglesia360/pkg/apperror"
	"iglesia360/pkg/pagination"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type ItemInput struct {
	Description string           `json:"description" validate:"notblank"`
	Amount      decimal.Decimal  `json:"amount"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
}

type CreateSolicitudRequest struct {
	MinistryID        uint                          `json:"ministryId" validate:"required"`
	ResponsibleUserID uint                          `json:"responsibleUserId" validate:"required"`
	Title             string                        `json:"title" validate:"notblank"`
	Description       string                        `json:"description" validate:"notblank"`
	PaymentType       model.PaymentType             `json:"paymentType"`
	PaymentDetail     string                        `json:"paymentDetail"`
	ThirdParty        *validation.ThirdPartyAccount `json:"thirdParty,omitempty" validate:"-"`
	Items             []ItemInput                   `json:"items" validate:"required,min=1,dive"`
	Currency          string                        `json:"currency"`
}

// UpdateSolicitudRequest is a patch: nil fields are left untouched
type UpdateSolicitudRequest struct {
	Title             *string                       `json:"title,omitempty" validate:"omitnil,notblank"`
	Description       *string                       `json:"description,omitempty" validate:"omitnil,notblank"`
	ResponsibleUserID *uint                         `json:"responsibleUserId,omitempty" validate:"omitnil,gt=0"`
	PaymentType       *model.PaymentType            `json:"paymentType,omitempty"`
	PaymentDetail     *string                       `json:"paymentDetail,omitempty"`
	ThirdParty        *validation.ThirdPartyAccount `json:"thirdParty,omitempty" validate:"-"`
	Items             []ItemInput                   `json:"items,omitempty" validate:"omitnil,min=1,dive"`
}

type SubmitSolicitudRequest struct {
	Comments string `json:"comments"`
}

type SolicitudFilter struct {
	model.SolicitudFilter
	Page pagination.Params
}

// --- Interface ---

type SolicitudService interface {
	Create(ctx context.Context, requesterID uint, req CreateSolicitudRequest) (*model.Solicitud, error)
	Get(ctx context.Context, id uint) (*model.Solicitud, error)
	List(ctx context.Context, filter SolicitudFilter) ([]model.Solicitud, int, error)
	Update(ctx context.Context, actorID, id uint, req UpdateSolicitudRequest) (*model.Solicitud, error)
	Submit(ctx context.Context, actorID, id uint, req SubmitSolicitudRequest) (*model.Solicitud, error)
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type solicitudService struct {
	WorkflowDeps
}

func NewSolicitudService(deps WorkflowDeps) SolicitudService {
	return &solicitudService{WorkflowDeps: deps.withDefaults()}
}

// --- Implementation ---

func toItems(inputs []ItemInput) []model.SolicitudItem {
	items := make([]model.SolicitudItem, len(inputs))
	for i, in := range inputs {
		items[i] = model.SolicitudItem{
			Description: strings.TrimSpace(in.Description),
			Amount:      in.Amount,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		}
		items[i].Normalize()
	}
	return items
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "PEN"
	}
	return currency
}

func (s *solicitudService) Create(ctx context.Context, requesterID uint, req CreateSolicitudRequest) (*model.Solicitud, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	items := toItems(req.Items)
	if err := validation.Items(items); err != nil {
		return nil, err
	}

	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = model.PaymentUnoMismo
	}
	detail, err := validation.Payment(paymentType, strings.TrimSpace(req.PaymentDetail), req.ThirdParty)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	sol := &model.Solicitud{
		MinistryID:        req.MinistryID,
		MinistryName:      s.ministryName(ctx, req.MinistryID),
		RequesterUserID:   requesterID,
		RequesterName:     s.userName(ctx, requesterID),
		ResponsibleUserID: req.ResponsibleUserID,
		ResponsibleName:   s.userName(ctx, req.ResponsibleUserID),
		Title:             strings.TrimSpace(req.Title),
		Description:       strings.TrimSpace(req.Description),
		Currency:          normalizeCurrency(req.Currency),
		Status:            model.StatusBorrador,
		PaymentType:       paymentType,
		PaymentDetail:     detail,
		Attachments:       []model.Attachment{},
		Approvals:         []model.ApprovalInfo{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	sol.SetItems(items)

	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Solicitudes.Insert(txCtx, sol); err != nil {
			return err
		}
		return s.audit(txCtx, requesterID, sol, model.ActionCreate, nil, snapshotOf(sol), "")
	})
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to create solicitud")
	}

	s.publish(model.EventSolicitudCreated, sol, requesterID)
	return sol, nil
}

func (s *solicitudService) Get(ctx context.Context, id uint) (*model.Solicitud, error) {
	return s.load(ctx, id)
}

func (s *solicitudService) List(ctx context.Context, filter SolicitudFilter) ([]model.Solicitud, int, error) {
	all, err := s.Solicitudes.FindAll(ctx, filter.SolicitudFilter)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "Failed to list solicitudes")
	}
	return pagination.Slice(all, filter.Page), len(all), nil
}

func (s *solicitudService) Update(ctx context.Context, actorID, id uint, req UpdateSolicitudRequest) (*model.Solicitud, error) {
	unlock := s.Locks.Lock(id)
	defer unlock()

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.IsEditable() {
		return nil, apperror.InvalidState("Only solicitudes in borrador can be updated")
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	// all changes go to a copy; the stored entity stays untouched on failure
	next := current.Clone()
	if req.Title != nil {
		next.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		next.Description = strings.TrimSpace(*req.Description)
	}
	if req.ResponsibleUserID != nil && *req.ResponsibleUserID != next.ResponsibleUserID {
		next.ResponsibleUserID = *req.ResponsibleUserID
		next.ResponsibleName = s.userName(ctx, next.ResponsibleUserID)
	}
	if req.Items != nil {
		items := toItems(req.Items)
		if err := validation.Items(items); err != nil {
			return nil, err
		}
		next.SetItems(items)
	}

	if req.PaymentType != nil || req.PaymentDetail != nil || req.ThirdParty != nil {
		paymentType := next.PaymentType
		if req.PaymentType != nil {
			paymentType = *req.PaymentType
		}
		detail := next.PaymentDetail
		if req.PaymentDetail != nil {
			detail = strings.TrimSpace(*req.PaymentDetail)
		}
		detail, err = validation.Payment(paymentType, detail, req.ThirdParty)
		if err != nil {
			return nil, err
		}
		next.PaymentType = paymentType
		next.PaymentDetail = detail
	}

	next.UpdatedAt = s.Now()

	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Solicitudes.Replace(txCtx, next); err != nil {
			return err
		}
		return s.audit(txCtx, actorID, next, model.ActionUpdate, snapshotOf(current), snapshotOf(next), "")
	})
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to update solicitud")
	}

	s.publish(model.EventSolicitudUpdated, next, actorID)
	return next, nil
}

// buildApprovalChain returns the ordered approvers of a submitted solicitud:
// the area responsible always, then the treasurer, whose sign-off is only
// required above TreasurerThreshold.
func (s *solicitudService) buildApprovalChain(ctx context.Context, sol *model.Solicitud) []model.ApprovalInfo {
	now := s.Now()
	treasurerID, treasurerName := s.treasurer(ctx)
	return []model.ApprovalInfo{
		{
			SolicitudID:      sol.ID,
			ApproverUserID:   sol.ResponsibleUserID,
			ApproverName:     s.userName(ctx, sol.ResponsibleUserID),
			ApprovalOrder:    1,
			Status:           model.ApprovalPendiente,
			RequiredApproval: true,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			SolicitudID:      sol.ID,
			ApproverUserID:   treasurerID,
			ApproverName:     treasurerName,
			ApprovalOrder:    2,
			Status:           model.ApprovalPendiente,
			RequiredApproval: sol.TotalAmount.GreaterThan(TreasurerThreshold),
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
}

func (s *solicitudService) Submit(ctx context.Context, actorID, id uint, req SubmitSolicitudRequest) (*model.Solicitud, error) {
	unlock := s.Locks.Lock(id)
	defer unlock()

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(model.StatusPendiente) {
		return nil, apperror.InvalidState("Only solicitudes in borrador can be submitted")
	}

	// the draft may have been stored without going through create/update
	if err := validation.Items(current.Items); err != nil {
		return nil, err
	}
	if err := validation.PaymentDetail(current.PaymentType, current.PaymentDetail); err != nil {
		return nil, err
	}

	now := s.Now()
	next := current.Clone()
	next.Status = model.StatusPendiente
	next.SubmittedAt = &now
	next.UpdatedAt = now
	if comments := strings.TrimSpace(req.Comments); comments != "" {
		next.RequesterComments = comments
	}
	next.Approvals = s.buildApprovalChain(ctx, next)

	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Solicitudes.Replace(txCtx, next); err != nil {
			return err
		}
		return s.audit(txCtx, actorID, next, model.ActionSubmit, snapshotOf(current), snapshotOf(next), next.RequesterComments)
	})
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to submit solicitud")
	}

	s.publish(model.EventSolicitudSubmitted, next, actorID)
	return next, nil
}

func (s *solicitudService) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	all, err := s.Solicitudes.FindAll(ctx, model.SolicitudFilter{})
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to compute dashboard stats")
	}

	stats := &model.DashboardStats{
		TotalSolicitudes: len(all),
		TotalAmount:      decimal.Zero,
		ApprovedAmount:   decimal.Zero,
	}
	for _, sol := range all {
		stats.TotalAmount = stats.TotalAmount.Add(sol.TotalAmount)
		switch sol.Status {
		case model.StatusPendiente, model.StatusEnRevision:
			stats.PendingSolicitudes++
		case model.StatusAprobado, model.StatusCompletado:
			stats.ApprovedSolicitudes++
			stats.ApprovedAmount = stats.ApprovedAmount.Add(sol.TotalAmount)
		}
	}

	ministries, err := s.Ministries.Count(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to count ministries")
	}
	users, err := s.Users.Count(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to count users")
	}
	stats.Ministries = int(ministries)
	stats.Users = int(users)
	return stats, nil
}
