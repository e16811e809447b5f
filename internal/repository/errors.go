// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between failure scenarios and map
// them onto the HTTP taxonomy: validation and capacity failures become
// 400, unknown records 404, duplicate registrations and illegal status
// transitions 409.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as a student fetching another
// student's registration. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyRegistered is returned when a student submits a second
// registration for an exam they already applied to. Handlers translate
// this into HTTP 409.
var ErrAlreadyRegistered = errors.New("already registered for this exam")

// ErrNoSeatAvailable is returned by the seat allocator when none of the
// preferred locations has spare capacity. Handlers translate this into
// HTTP 400.
var ErrNoSeatAvailable = errors.New("no seat available at preferred locations")

// ErrInvalidState is returned when a review decision targets a
// registration that is no longer PENDING. Approving or rejecting twice
// must surface a conflict rather than silently succeeding. Handlers
// translate this into HTTP 409.
var ErrInvalidState = errors.New("registration is not pending")
