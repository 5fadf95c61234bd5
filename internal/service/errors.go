package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrClientNotFound is returned when a client stub is not found
	ErrClientNotFound = errors.New("client not found")

	// ErrDuplicatePhone is returned when creating a client whose phone already exists in the tenant
	ErrDuplicatePhone = errors.New("a client with this phone already exists")

	// ErrVisitNotFound is returned when a visit is not found
	ErrVisitNotFound = errors.New("visit not found")

	// ErrSegmentNotFound is returned when a segment is not found
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrDuplicateSegmentName is returned when a segment name is already taken in the tenant
	ErrDuplicateSegmentName = errors.New("a segment with this name already exists")

	// ErrAttachmentNotFound is returned when an attachment is not found
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrTenantRequired is returned when an operation needs a concrete tenant
	// but the caller has access to both studios and did not pick one
	ErrTenantRequired = errors.New("a tenant must be selected for this operation")

	// ErrTenantNotFound is returned when a tenant is not found
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
)
