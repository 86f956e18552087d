package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// EntryKind – immutable value object
// ---------------------------------------------------------------------------

// EntryKind classifies a ledger entry.
type EntryKind struct {
	value string
}

const (
	entryKindAccrual    = "ACCRUAL"
	entryKindPayment    = "PAYMENT"
	entryKindRateChange = "RATE_CHANGE"
	entryKindAdjustment = "ADJUSTMENT"
)

var (
	EntryKindAccrual    = EntryKind{value: entryKindAccrual}
	EntryKindPayment    = EntryKind{value: entryKindPayment}
	EntryKindRateChange = EntryKind{value: entryKindRateChange}
	EntryKindAdjustment = EntryKind{value: entryKindAdjustment}
)

var validEntryKinds = map[string]EntryKind{
	entryKindAccrual:    EntryKindAccrual,
	entryKindPayment:    EntryKindPayment,
	entryKindRateChange: EntryKindRateChange,
	entryKindAdjustment: EntryKindAdjustment,
}

// NewEntryKind creates an EntryKind from a raw string.
func NewEntryKind(s string) (EntryKind, error) {
	v, ok := validEntryKinds[s]
	if !ok {
		return EntryKind{}, fmt.Errorf("invalid ledger entry kind: %q", s)
	}
	return v, nil
}

// String returns the string representation of the kind.
func (k EntryKind) String() string { return k.value }

// IsZero returns true if the kind has not been initialised.
func (k EntryKind) IsZero() bool { return k.value == "" }

// Equal returns true when both kinds carry the same value.
func (k EntryKind) Equal(other EntryKind) bool { return k.value == other.value }

// ---------------------------------------------------------------------------
// JobStatus – immutable value object
// ---------------------------------------------------------------------------

// JobStatus represents the lifecycle stage of an accrual job.
type JobStatus struct {
	value string
}

const (
	jobStatusPending   = "pending"
	jobStatusRunning   = "running"
	jobStatusCompleted = "completed"
	jobStatusFailed    = "failed"
)

var (
	JobStatusPending   = JobStatus{value: jobStatusPending}
	JobStatusRunning   = JobStatus{value: jobStatusRunning}
	JobStatusCompleted = JobStatus{value: jobStatusCompleted}
	JobStatusFailed    = JobStatus{value: jobStatusFailed}
)

var validJobStatuses = map[string]JobStatus{
	jobStatusPending:   JobStatusPending,
	jobStatusRunning:   JobStatusRunning,
	jobStatusCompleted: JobStatusCompleted,
	jobStatusFailed:    JobStatusFailed,
}

// NewJobStatus creates a JobStatus from a raw string.
func NewJobStatus(s string) (JobStatus, error) {
	v, ok := validJobStatuses[s]
	if !ok {
		return JobStatus{}, fmt.Errorf("invalid accrual job status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s JobStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s JobStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s JobStatus) Equal(other JobStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
