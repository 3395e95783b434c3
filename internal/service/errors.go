// Package service implements the application's domain operations on top of
// a storage.Store: groups, bills, the group-bill linker and the item split
// engine. Every operation performs its own ownership and membership checks,
// so callers (HTTP handlers, jobs) never re-implement them.
package service

import "errors"

// Every error here is a recoverable caller-facing rejection of one request;
// none is fatal to the process. Not-found conditions reuse storage.ErrNotFound.
var (
	// ErrValidation is returned for missing or malformed required fields.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrVendorMismatch is returned by linker operations when a bill or
	// group belongs to a different vendor than the caller.
	ErrVendorMismatch = errors.New("vendor mismatch")

	// ErrAlreadyMember is returned when joining a group twice.
	ErrAlreadyMember = errors.New("already a member of this group")

	// ErrNotMember is returned when the caller is not in the group.
	ErrNotMember = errors.New("not a member of this group")

	// ErrCreatorMustTransfer is returned when the creator tries to leave
	// while other members remain.
	ErrCreatorMustTransfer = errors.New("creator cannot leave while other members remain")

	// ErrAlreadyAttached is returned when attaching a group that already
	// points at a different bill and reattachment was not allowed.
	ErrAlreadyAttached = errors.New("group is already attached to a different bill")

	// ErrNotAttached is returned when an operation requires the group to be
	// attached to a specific bill and it is not.
	ErrNotAttached = errors.New("group is not attached to this bill")

	// ErrNotGroupMember is returned when a split assignee is not in the
	// group's member set.
	ErrNotGroupMember = errors.New("assignee is not a group member")
)
