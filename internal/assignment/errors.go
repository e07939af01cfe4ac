package assignment

import "errors"

// Error kinds recovered into structured results at the API boundary.
// Business conditions (full pools, duplicate triggers) never surface as
// hard failures to the payment flow that triggered the call.
var (
	// ErrNotFound covers a missing inscription, assignment or dormitory.
	ErrNotFound = errors.New("not found")

	// ErrInvalidGender means the inscription has no usable gender, so no
	// capacity pool can be selected.
	ErrInvalidGender = errors.New("participant gender not specified")

	// ErrCapacityExhausted means no dormitory of the required gender has
	// a free slot. Recoverable: surfaced to the operator, never fatal.
	ErrCapacityExhausted = errors.New("no dormitory with available slots")

	// ErrCapacityUpdate means the guarded slot update failed at the
	// storage layer. The enclosing transaction is rolled back, so no
	// assignment row survives it; retryable.
	ErrCapacityUpdate = errors.New("dormitory capacity update failed")

	// ErrNoActiveAssignment means reassign was called for an inscription
	// that holds no assignment.
	ErrNoActiveAssignment = errors.New("no dormitory currently assigned")

	// ErrCapacityBelowOccupancy rejects a capacity edit that would drive
	// available_slots negative.
	ErrCapacityBelowOccupancy = errors.New("total capacity below current occupancy")

	// ErrDormitoryOccupied forbids deleting a dormitory that still has
	// assignments referencing it.
	ErrDormitoryOccupied = errors.New("dormitory has active assignments")
)

// errSlotRaceLost aborts the per-candidate transaction when the guarded
// decrement matched no row: another request claimed the last slot
// between selection and reservation. Internal; the caller moves on to
// the next candidate.
var errSlotRaceLost = errors.New("slot already claimed")
