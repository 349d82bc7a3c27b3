package domain

import "time"

// SyncOperationType is the kind of deferred mirror write
type SyncOperationType string

const (
	SyncOpMirrorUpsert SyncOperationType = "mirror_upsert"
	SyncOpMirrorDelete SyncOperationType = "mirror_delete"
)

// SyncOperationStatus is the state of an outbox entry
type SyncOperationStatus string

const (
	SyncStatusPending SyncOperationStatus = "pending"
	SyncStatusDone    SyncOperationStatus = "done"
	SyncStatusFailed  SyncOperationStatus = "failed"
)

// SyncOperation is an outbox entry: a mirror write that did not happen together with
// the provider write and has to be replayed. Entries are keyed by external event id,
// replaying one twice is harmless.
type SyncOperation struct {
	ID              int64
	ExternalEventID string
	Operation       SyncOperationType
	Status          SyncOperationStatus
	// LocalStatus is the business status to restore into the mirror on upsert
	LocalStatus EventStatus
	Attempts    int
	LastError   *string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time
}
