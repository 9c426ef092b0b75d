package service

import (
	"context"
	"sort"
	"strings"

	"iglesia360/internal/model"
	"iglesia360/internal/validation"
	"iglesia360/pkg/apperror"
)

// --- DTOs ---

type ApproveRequest struct {
	Comments string `json:"comments"`
}

type RejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
	Comments        string `json:"comments"`
}

// --- Interface ---

// ApprovalService records approver decisions on a solicitud. Decisions are
// facts on the approval chain; the solicitud status is not derived from them.
type ApprovalService interface {
	Approve(ctx context.Context, solicitudID, approverID uint, req ApproveRequest) (*model.Solicitud, error)
	Reject(ctx context.Context, solicitudID, approverID uint, req RejectRequest) (*model.Solicitud, error)
	ListApprovals(ctx context.Context, solicitudID uint) ([]model.ApprovalInfo, error)
}

type approvalService struct {
	WorkflowDeps
}

func NewApprovalService(deps WorkflowDeps) ApprovalService {
	return &approvalService{WorkflowDeps: deps.withDefaults()}
}

// --- Implementation ---

// decide resolves the approver's pending entry in place, or appends a new
// entry at the end of the chain when the approver has none pending.
func (s *approvalService) decide(ctx context.Context, sol *model.Solicitud, approverID uint, apply func(a *model.ApprovalInfo)) *model.ApprovalInfo {
	for i := range sol.Approvals {
		a := &sol.Approvals[i]
		if a.ApproverUserID == approverID && a.Status == model.ApprovalPendiente {
			apply(a)
			return a
		}
	}

	now := s.Now()
	sol.Approvals = append(sol.Approvals, model.ApprovalInfo{
		SolicitudID:    sol.ID,
		ApproverUserID: approverID,
		ApproverName:   s.userName(ctx, approverID),
		ApprovalOrder:  len(sol.Approvals) + 1,
		CreatedAt:      now,
	})
	a := &sol.Approvals[len(sol.Approvals)-1]
	apply(a)
	return a
}

func (s *approvalService) Approve(ctx context.Context, solicitudID, approverID uint, req ApproveRequest) (*model.Solicitud, error) {
	unlock := s.Locks.Lock(solicitudID)
	defer unlock()

	current, err := s.load(ctx, solicitudID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	comments := strings.TrimSpace(req.Comments)
	next := current.Clone()
	entry := s.decide(ctx, next, approverID, func(a *model.ApprovalInfo) {
		a.Status = model.ApprovalAprobado
		a.ApprovalDate = &now
		a.Comments = comments
		a.UpdatedAt = now
	})
	next.UpdatedAt = now

	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Solicitudes.Replace(txCtx, next); err != nil {
			return err
		}
		return s.audit(txCtx, approverID, next, model.ActionApprove, nil, entry, comments)
	})
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to approve solicitud")
	}

	s.publish(model.EventSolicitudApproved, next, approverID)
	return next, nil
}

func (s *approvalService) Reject(ctx context.Context, solicitudID, approverID uint, req RejectRequest) (*model.Solicitud, error) {
	if err := validation.RejectionReason(req.RejectionReason); err != nil {
		return nil, err
	}

	unlock := s.Locks.Lock(solicitudID)
	defer unlock()

	current, err := s.load(ctx, solicitudID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	reason := strings.TrimSpace(req.RejectionReason)
	comments := strings.TrimSpace(req.Comments)
	next := current.Clone()
	entry := s.decide(ctx, next, approverID, func(a *model.ApprovalInfo) {
		a.Status = model.ApprovalRechazado
		a.ApprovalDate = &now
		a.RejectionReason = reason
		a.Comments = comments
		a.UpdatedAt = now
	})
	next.UpdatedAt = now

	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Solicitudes.Replace(txCtx, next); err != nil {
			return err
		}
		return s.audit(txCtx, approverID, next, model.ActionReject, nil, entry, reason)
	})
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to reject solicitud")
	}

	s.publish(model.EventSolicitudRejected, next, approverID)
	return next, nil
}

func (s *approvalService) ListApprovals(ctx context.Context, solicitudID uint) ([]model.ApprovalInfo, error) {
	sol, err := s.load(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	approvals := sol.Approvals
	sort.SliceStable(approvals, func(i, j int) bool {
		return approvals[i].ApprovalOrder < approvals[j].ApprovalOrder
	})
	return approvals, nil
}
