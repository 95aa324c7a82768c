package constant

// PermissionStatus is the notification permission state reported by the notifier.
type PermissionStatus string

const (
	PermissionUndetermined PermissionStatus = "undetermined"
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
)

// TriggerType selects when a scheduled notification fires.
type TriggerType string

const (
	// TriggerDate fires once at an absolute instant.
	TriggerDate TriggerType = "date"
	// TriggerDaily fires every day at hour:minute, indefinitely.
	TriggerDaily TriggerType = "daily"
	// TriggerImmediate fires on registration.
	TriggerImmediate TriggerType = "immediate"
)

// Importance mirrors the delivery channel importance levels.
type Importance int

const (
	ImportanceMin Importance = iota + 1
	ImportanceLow
	ImportanceDefault
	ImportanceHigh
	ImportanceMax
)

// Platform is the client platform family reminders are delivered for.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// RequiresChannels reports whether the platform needs an explicit delivery
// channel configured before notifications are shown.
func (p Platform) RequiresChannels() bool {
	return p == PlatformAndroid
}

// PayloadTypeRefill marks refill reminders in a notification payload.
// Dosage reminders carry no type.
const PayloadTypeRefill = "refill"

// DefaultChannelName is the delivery channel reminders are posted to.
const DefaultChannelName = "default"
