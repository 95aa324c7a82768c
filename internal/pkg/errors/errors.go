package errors

import "errors"

// Custom application errors
var (
	ErrMedicationNotFound   = errors.New("medication not found")
	ErrInvalidMedication    = errors.New("invalid medication")
	ErrInvalidTimeOfDay     = errors.New("invalid time of day, expected HH:MM")
	ErrNotificationNotFound = errors.New("scheduled notification not found")
	ErrPermissionDenied     = errors.New("notification permission not granted")
	ErrDatabaseOperation    = errors.New("database operation failed")
	ErrDelivery             = errors.New("notification delivery failed")
	ErrScheduling           = errors.New("scheduling failed")
	ErrInternalServer       = errors.New("internal server error")
)
