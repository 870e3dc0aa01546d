package errors

import "errors"

var (
	ErrShipmentNotFound       = errors.New("shipment not found")
	ErrDeliverableNotFound    = errors.New("deliverable not found")
	ErrInvalidInput           = errors.New("invalid fulfillment input")
	ErrInvalidStateTransition = errors.New("invalid fulfillment state transition")
	ErrConflict               = errors.New("fulfillment state changed concurrently")
	ErrReasonRequired         = errors.New("a review reason is required")
	ErrPermalinkRequired      = errors.New("a verified permalink is required")
	ErrNotSubmitted           = errors.New("deliverable has no submission to review")
	ErrUnauthorizedActor      = errors.New("actor may not act on this record")
	ErrAlreadyProvisioned     = errors.New("match already provisioned")
)
