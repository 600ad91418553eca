package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyExists    = errors.New("entity already exists")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrQueueClosed      = errors.New("job queue closed")
	ErrMalformedPayload = errors.New("malformed job payload")
	ErrJobClaimed       = errors.New("job already claimed by another worker")
	ErrOCRUnavailable   = errors.New("ocr capability not configured")
)
