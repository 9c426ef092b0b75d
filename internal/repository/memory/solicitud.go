package memory

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"
)

type SolicitudRepository struct {
	store       *table[model.Solicitud]
	nestedIDSeq atomic.Uint64
}

func NewSolicitudRepository() *SolicitudRepository {
	return &SolicitudRepository{
		store: newTable(
			func(s *model.Solicitud) *uint { return &s.ID },
			func(s *model.Solicitud) *model.Solicitud { return s.Clone() },
		),
	}
}

var _ repository.SolicitudRepository = (*SolicitudRepository)(nil)

func (r *SolicitudRepository) nextNestedID() uint {
	return uint(r.nestedIDSeq.Add(1))
}

// assignChildren links nested records to their parent and gives new ones an id
func (r *SolicitudRepository) assignChildren(s *model.Solicitud) {
	for i := range s.Items {
		s.Items[i].SolicitudID = s.ID
		if s.Items[i].ID == 0 {
			s.Items[i].ID = r.nextNestedID()
		}
	}
	for i := range s.Approvals {
		s.Approvals[i].SolicitudID = s.ID
		if s.Approvals[i].ID == 0 {
			s.Approvals[i].ID = r.nextNestedID()
		}
	}
	for i := range s.Attachments {
		s.Attachments[i].SolicitudID = s.ID
		if s.Attachments[i].ID == 0 {
			s.Attachments[i].ID = r.nextNestedID()
		}
	}
}

func (r *SolicitudRepository) Insert(_ context.Context, s *model.Solicitud) error {
	r.store.insert(s, func(s *model.Solicitud, id uint) {
		s.Code = fmt.Sprintf("SOL%03d", id)
		r.assignChildren(s)
	})
	return nil
}

func (r *SolicitudRepository) FindByID(_ context.Context, id uint) (*model.Solicitud, error) {
	s, ok := r.store.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *SolicitudRepository) FindAll(_ context.Context, filter model.SolicitudFilter) ([]model.Solicitud, error) {
	out := r.store.find(filter.Matches)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *SolicitudRepository) Replace(_ context.Context, s *model.Solicitud) error {
	if !r.store.replace(s, r.assignChildren) {
		return repository.ErrNotFound
	}
	return nil
}
