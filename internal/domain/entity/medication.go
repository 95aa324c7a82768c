package entity

import "time"

// Medication is a medication record and its reminder settings.
type Medication struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	Name            string    `gorm:"column:name" json:"name"`
	Dosage          string    `gorm:"column:dosage" json:"dosage"`
	Times           []string  `gorm:"column:times;serializer:json" json:"times"` // "HH:MM", 24-hour
	ReminderEnabled bool      `gorm:"column:reminder_enabled" json:"reminderEnabled"`
	RefillReminder  bool      `gorm:"column:refill_reminder" json:"refillReminder"`
	CurrentSupply   int       `gorm:"column:current_supply" json:"currentSupply"`
	RefillAt        int       `gorm:"column:refill_at" json:"refillAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Medication entity.
func (Medication) TableName() string {
	return "medications"
}

// NeedsRefill reports whether supply has dropped to the refill threshold.
func (m *Medication) NeedsRefill() bool {
	return m.CurrentSupply <= m.RefillAt
}
