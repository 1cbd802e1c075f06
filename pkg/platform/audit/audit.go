// Package audit captures compliance-relevant actions taken against a project.
//
// Domain services emit events through a Publisher; events are appended to a
// Store and optionally relayed to Kafka. Keep Event transport-agnostic so
// stores and sinks can fan out.
package audit

import (
	"context"
	"time"

	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Timestamp time.Time
	ProjectID id.ProjectID
	ActorID   id.UserID
	Action    string
	// EntityID is the string form of the entity the action touched
	// (boundary, cell, gap, evidence).
	EntityID string
	// Detail carries action-specific context, e.g. the transition taken.
	Detail    string
	RequestID string
}

// AuditEvent names every action the service records.
type AuditEvent string

const (
	EventProjectCreated     AuditEvent = "project_created"
	EventProjectOnHoldSet   AuditEvent = "project_on_hold_set"
	EventBoundaryCreated    AuditEvent = "boundary_created"
	EventBoundaryDeleted    AuditEvent = "boundary_deleted"
	EventStakeholderAdded   AuditEvent = "stakeholder_added"
	EventApplicabilitySet   AuditEvent = "applicability_set"
	EventAssessmentRecorded AuditEvent = "assessment_recorded"
	EventEvidenceAdded      AuditEvent = "evidence_added"
	EventGapOpened          AuditEvent = "gap_opened"
	EventGapTransitioned    AuditEvent = "gap_transitioned"
)

// Store persists audit events. Append must be append-only; events are never
// updated or deleted.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByProject(ctx context.Context, projectID id.ProjectID) ([]Event, error)
}

// Sink receives a copy of every persisted event, e.g. a Kafka topic consumed
// by the organization's SIEM.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
