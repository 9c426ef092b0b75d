package model

import "time"

type EventType string

const (
	EventSolicitudCreated   EventType = "solicitud.created"
	EventSolicitudUpdated   EventType = "solicitud.updated"
	EventSolicitudSubmitted EventType = "solicitud.submitted"
	EventSolicitudApproved  EventType = "solicitud.approved"
	EventSolicitudRejected  EventType = "solicitud.rejected"
)

// WorkflowEvent is pushed to live clients after a workflow mutation commits
type WorkflowEvent struct {
	Type        EventType       `json:"type"`
	SolicitudID uint            `json:"solicitudId"`
	Code        string          `json:"code"`
	Status      SolicitudStatus `json:"status"`
	ActorID     uint            `json:"actorId"`
	At          time.Time       `json:"at"`
}
